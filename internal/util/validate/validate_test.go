package validate

import "testing"

func TestPhone(t *testing.T) {
	valid := []string{"13800000000", "+8613800000000", "4401234567"}
	for _, p := range valid {
		if !Phone(p) {
			t.Errorf("Phone(%q) = false", p)
		}
	}

	invalid := []string{"", "abc", "123", "+", "138 0000 0000"}
	for _, p := range invalid {
		if Phone(p) {
			t.Errorf("Phone(%q) = true", p)
		}
	}
}

func TestEmail(t *testing.T) {
	if !Email("alice@example.com") {
		t.Error("valid email rejected")
	}
	if Email("not-an-email") {
		t.Error("invalid email accepted")
	}
}

func TestUsername(t *testing.T) {
	if !Username("alice_01") {
		t.Error("valid username rejected")
	}
	if Username("1leading-digit") {
		t.Error("leading digit accepted")
	}
	if Username("a") {
		t.Error("single char accepted")
	}
}

func TestPassword(t *testing.T) {
	if Password("short") {
		t.Error("short password accepted")
	}
	if !Password("long enough") {
		t.Error("valid password rejected")
	}
}
