package attendance

import (
	"crypto/rand"
	"errors"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	defer func() { randRead = rand.Read }()

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := generateToken()
			if err != nil {
				t.Fatalf("generateToken() unexpected error = %v", err)
			}
			if seen[token] {
				t.Fatalf("generateToken() produced a duplicate: %s", token)
			}
			seen[token] = true
		}
	})

	t.Run("encodes all random bytes", func(t *testing.T) {
		token, err := generateToken()
		if err != nil {
			t.Fatalf("generateToken() unexpected error = %v", err)
		}
		// 32 bytes -> 43 chars of unpadded base64url
		if len(token) != 43 {
			t.Errorf("len(token) = %d, want 43", len(token))
		}
	})

	t.Run("random source failure", func(t *testing.T) {
		wantErr := errors.New("entropy exhausted")
		randRead = func(b []byte) (int, error) { return 0, wantErr }
		if _, err := generateToken(); err != wantErr {
			t.Errorf("generateToken() error = %v, wantErr %v", err, wantErr)
		}
	})
}

func TestTokensEqual(t *testing.T) {
	tests := []struct {
		name              string
		presented, stored string
		want              bool
	}{
		{name: "equal", presented: "abc123", stored: "abc123", want: true},
		{name: "different", presented: "abc123", stored: "abc124"},
		{name: "prefix", presented: "abc", stored: "abc123"},
		{name: "both empty", presented: "", stored: "", want: true},
		{name: "empty presented", presented: "", stored: "abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokensEqual(tt.presented, tt.stored); got != tt.want {
				t.Errorf("tokensEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}
