package hash

import "testing"

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if h == "s3cret" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPasswordHash("s3cret", h) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("wrong", h) {
		t.Fatal("expected wrong password to be rejected")
	}
}
