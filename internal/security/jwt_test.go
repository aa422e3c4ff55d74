package security_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hemdhoni222/todo-app/internal/security"
)

func TestIssueParseRoundTrip(t *testing.T) {
	tok, err := security.Issue("s3cret", "u1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c, err := security.Parse("s3cret", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != "u1" || c.Subject != "u1" {
		t.Fatalf("claims mismatch: %#v", c)
	}
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := security.Issue("s3cret", "u1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.Parse("other", tok); !errors.Is(err, security.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestParseExpired(t *testing.T) {
	tok, err := security.Issue("s3cret", "u1", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.Parse("s3cret", tok); !errors.Is(err, security.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := security.Parse("s3cret", "not.a.token"); !errors.Is(err, security.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestPasswordHashCheck(t *testing.T) {
	h, err := security.HashPassword("StrongP@ss1")
	if err != nil {
		t.Fatal(err)
	}
	if h == "StrongP@ss1" {
		t.Fatal("hash equals plaintext")
	}
	if !security.CheckPassword(h, "StrongP@ss1") {
		t.Fatal("correct password rejected")
	}
	if security.CheckPassword(h, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := security.HashPassword("same")
	b, _ := security.HashPassword("same")
	if a == b {
		t.Fatal("two hashes of the same password are identical, salt missing")
	}
}
