// Package password はパスワードの一方向ハッシュ化と検証を提供する。
//
// bcryptを使用する。ソルトはハッシュごとに自動生成されるため、
// 同じ平文を2回ハッシュ化しても異なる出力になるが、どちらも検証に成功する。
// bcryptの比較は不一致位置に依存しない一定時間比較であり、
// タイミングによる情報漏洩を防ぐ。この性質はVerifyの契約の一部である。
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/blogman/internal/model"
)

// Hasher はbcryptによるパスワードハッシュ化と検証を提供する。
type Hasher struct {
	cost int
}

// NewHasher はHasherを生成する。
// costはbcryptのコストパラメータ。bcrypt.MinCost未満の場合はDefaultCostを使用する。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードからソルト付きハッシュを生成する。
// 出力は不透明な文字列として扱い、平文を復元することはできない。
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify は平文パスワードがハッシュの生成元と一致するかを検証する。
// 不一致は(false, nil)であり、エラーではない。
// ハッシュの形式が不正な場合のみCorruptCredentialのAppErrorを返す。
// これはデータ整合性の障害であり、通常運用では発生しない。
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	// ErrHashTooShort、HashVersionTooNewError等: 保存されたハッシュ自体が壊れている
	return false, model.NewCorruptCredentialError(err.Error())
}

// DummyVerify は実在しないユーザーに対するログイン試行で呼び出し、
// メールアドレスの存在有無による応答時間の差をなくす。
// 固定ハッシュとの比較を1回実行し、結果は常に破棄される。
func (h *Hasher) DummyVerify(plaintext string) {
	// "dummy-password"のbcryptハッシュ（cost 10）
	const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}
