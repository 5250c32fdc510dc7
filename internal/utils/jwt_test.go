package utils

import "testing"

func TestSessionRoundTrip(t *testing.T) {
	token, err := GenerateSession(42, "test-secret")
	if err != nil {
		t.Fatalf("generate session: %v", err)
	}
	claims, err := ParseSession(token, "test-secret")
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id %d, want 42", claims.UserID)
	}
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSession(42, "test-secret")
	if err != nil {
		t.Fatalf("generate session: %v", err)
	}
	if _, err := ParseSession(token, "other-secret"); err == nil {
		t.Fatalf("expected validation failure with the wrong secret")
	}
}

func TestSessionRejectsGarbage(t *testing.T) {
	if _, err := ParseSession("not-a-token", "test-secret"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
