package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/blogman/internal/model"
)

// テストではbcrypt.MinCostを使用して実行時間を抑える

func TestHash_ProducesVerifiableHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	ok, err := h.Verify("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("expected verification to succeed for the original password")
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// ソルトが毎回生成されるため出力は異なる
	if hash1 == hash2 {
		t.Error("expected different hashes for the same password")
	}

	// どちらのハッシュでも検証は成功する
	for _, hash := range []string{hash1, hash2} {
		ok, err := h.Verify("same-password", hash)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !ok {
			t.Error("expected verification to succeed against both hashes")
		}
	}
}

func TestHash_EmptyPassword_ReturnsError(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	if _, err := h.Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestVerify_WrongPassword_ReturnsFalseWithoutError(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	ok, err := h.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Error("expected verification to fail for a wrong password")
	}
}

func TestVerify_CorruptHash_ReturnsCorruptCredentialError(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"plaintext stored as hash", "not-a-bcrypt-hash"},
		{"truncated hash", "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("any-password", tt.hash)
			if ok {
				t.Error("expected verification to fail")
			}
			if err == nil {
				t.Fatal("expected CorruptCredential error")
			}
			if !model.IsCorruptCredential(err) {
				t.Errorf("expected CorruptCredential error, got %v", err)
			}
		})
	}
}

func TestDummyVerify_DoesNotPanic(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	// 返り値なし。比較が実行されて戻ってくることのみ確認する。
	h.DummyVerify("any-password")
	h.DummyVerify("")
}

func TestNewHasher_CostBelowMin_FallsBackToDefault(t *testing.T) {
	h := NewHasher(0)

	hash, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost() error = %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}

func TestHash_OutputIsBcryptFormat(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash = %q, want bcrypt format ($2a$ prefix)", hash)
	}
}
