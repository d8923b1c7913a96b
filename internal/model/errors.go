// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// AppError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type AppError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeCorruptCredential  = "CORRUPT_CREDENTIAL"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
)

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
// 登録・プロフィール更新時にDBの一意制約違反から変換される。
func NewDuplicateEmailError(email string) *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを入力してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレス未登録とパスワード不一致を意図的に区別しない。
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewCorruptCredentialError は保存済みパスワードハッシュの破損エラーを生成する。
// 通常運用では発生しないデータ整合性の障害であり、ログに記録して処理を中断する。
func NewCorruptCredentialError(reason string) *AppError {
	return &AppError{
		Code:     ErrCodeCorruptCredential,
		Message:  fmt.Sprintf("認証情報の形式が不正です: %s", reason),
		Category: "system",
		Action:   "管理者に連絡してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// HasCode はerrが指定コードのAppErrorかどうかを判定する。
// fmt.Errorfの%wでラップされたAppErrorも辿って判定する。
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsDuplicateEmail はメールアドレス重複エラーかどうかを判定する。
func IsDuplicateEmail(err error) bool {
	return HasCode(err, ErrCodeDuplicateEmail)
}

// IsInvalidCredentials は認証失敗エラーかどうかを判定する。
func IsInvalidCredentials(err error) bool {
	return HasCode(err, ErrCodeInvalidCredentials)
}

// IsCorruptCredential は認証情報破損エラーかどうかを判定する。
func IsCorruptCredential(err error) bool {
	return HasCode(err, ErrCodeCorruptCredential)
}
