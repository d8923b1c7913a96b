// Package form はHTTPフォームの取り込みとバリデーションを提供する。
//
// コアのサービス層は検証済みのフォーム構造体のみを受け取り、
// 検証エラー時はハンドラーがフィールドごとのエラーを添えてフォームを再表示する。
// パスワードフィールドは再表示時に絶対に埋め戻さない。
package form

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RegisterForm はユーザー登録フォームの入力を表す。
type RegisterForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ParseRegisterForm はリクエストからRegisterFormを取り込む。
func ParseRegisterForm(r *http.Request) RegisterForm {
	return RegisterForm{
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
}

// Validate はバリデーションルールを適用する。
// エラーはvalidation.Errors（フィールド名→エラー）として返る。
func (f RegisterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(4, 100)),
		validation.Field(&f.ConfirmPassword, validation.Required,
			validation.By(stringEquals(f.Password, "passwords do not match"))),
	)
}

// LoginForm はログインフォームの入力を表す。
type LoginForm struct {
	Email    string
	Password string
	Remember bool
}

// ParseLoginForm はリクエストからLoginFormを取り込む。
func ParseLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember") != "",
	}
}

// Validate はバリデーションルールを適用する。
// ログインでは形式チェックのみ行い、メールアドレスの存在有無は漏らさない。
func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required),
		validation.Field(&f.Password, validation.Required),
	)
}

// PostForm は記事作成フォームの入力を表す。
type PostForm struct {
	Title   string
	Content string
}

// ParsePostForm はリクエストからPostFormを取り込む。
func ParsePostForm(r *http.Request) PostForm {
	return PostForm{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
}

// Validate はバリデーションルールを適用する。
func (f PostForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Content, validation.Required),
	)
}

// AccountForm はプロフィール更新フォームの入力を表す。
type AccountForm struct {
	FirstName string
	LastName  string
	Email     string
}

// ParseAccountForm はリクエストからAccountFormを取り込む。
func ParseAccountForm(r *http.Request) AccountForm {
	return AccountForm{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
	}
}

// Validate はバリデーションルールを適用する。
func (f AccountForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Email, validation.Required, validation.Length(3, 254), is.Email),
	)
}

// FieldErrors はvalidation.Errorsをテンプレート表示用のmapに変換する。
// バリデーションエラー以外のerrorは"form"キーにまとめる。
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := map[string]string{}
	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}
	out["form"] = err.Error()
	return out
}

// stringEquals は他フィールドとの一致を検証するルールを返す。
func stringEquals(expected, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != expected {
			return validation.NewError("validation_string_equals", message)
		}
		return nil
	}
}
