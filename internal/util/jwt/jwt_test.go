package jwt

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	userId, err := VerifyAccessToken("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	if userId != "user-1" {
		t.Errorf("subject = %q", userId)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyAccessToken("other", token); err == nil {
		t.Error("token verified with wrong secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyAccessToken("secret", token); err == nil {
		t.Error("expired token verified")
	}
}
