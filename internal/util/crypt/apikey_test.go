package crypt

import "testing"

func TestGenerateAPIKey(t *testing.T) {
	a := GenerateAPIKey()
	b := GenerateAPIKey()

	if a == "" {
		t.Fatal("empty key")
	}
	if a == b {
		t.Error("keys not unique")
	}
}
