package model

import "testing"

func TestUserPassword(t *testing.T) {
	user := NewUser("13800000000", "alice", "s3cret")

	if user.Id == "" {
		t.Fatal("user id empty")
	}
	if !user.Active {
		t.Error("new user not active")
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plain text")
	}

	if !user.CheckPassword("s3cret") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}

	if err := user.SetPassword("new-pass"); err != nil {
		t.Fatal(err)
	}
	if !user.CheckPassword("new-pass") {
		t.Error("updated password rejected")
	}
}
