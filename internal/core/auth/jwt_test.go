package auth

import (
	"testing"
	"time"

	"user-account-api/internal/domain"
)

func testJWTer() *JWTer {
	return &JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "test",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func testUser() *domain.User {
	return &domain.User{ID: 42, Email: "a@x.com", Role: domain.RoleAdmin}
}

func TestIssueAccessAndParse(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	u := testUser()

	tok, err := j.IssueAccess(u)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != u.Email {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, u.Email)
	}
	if claims.UID != u.ID {
		t.Fatalf("uid mismatch: got %d want %d", claims.UID, u.ID)
	}
	if claims.Role != string(u.Role) {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, u.Role)
	}
}

func TestIssueRefresh_LongerLived(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	u := testUser()

	tok, err := j.IssueRefresh(u)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.ExpiresAt.Time.Before(time.Now().Add(j.AccessTTL)) {
		t.Fatalf("refresh token expires before access ttl: %v", claims.ExpiresAt.Time)
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	j.AccessTTL = -5 * time.Minute // 超出 60s leeway

	tok, err := j.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := j.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	tok, err := j.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	other := testJWTer()
	other.Secret = []byte("different-secret")
	if _, err := other.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParse_WrongIssuer(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	j.Issuer = "someone-else"
	tok, err := j.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := testJWTer().Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := j.Parse(tok); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestParse_MissingSubject(t *testing.T) {
	t.Parallel()

	j := testJWTer()
	tok, err := j.IssueAccess(&domain.User{ID: 1, Role: domain.RoleUser}) // email 为空
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := j.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}
}
