package service

import (
	"strings"
	"testing"

	"github.com/banodoco/Reigh-sub009/internal/pkg/jwt"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTest(t)

	resp, err := Register("dana", "hunter2", "dana@example.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Fatalf("bad token response: %+v", resp)
	}

	claims, err := jwt.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Username != "dana" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := Register("dana", "other", ""); err != ErrUsernameExists {
		t.Fatalf("duplicate register err = %v, want ErrUsernameExists", err)
	}

	if _, err := Login("dana", "hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := Login("dana", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := Login("nobody", "hunter2"); err != ErrInvalidCredentials {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)

	issued, err := IssueAccessToken(userID, "render farm")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if !strings.HasPrefix(issued.Token, TokenPrefix) {
		t.Fatalf("token %q missing %q prefix", issued.Token, TokenPrefix)
	}

	resolved, err := ResolveAccessToken(issued.Token)
	if err != nil {
		t.Fatalf("ResolveAccessToken: %v", err)
	}
	if resolved.UserID != userID {
		t.Fatalf("resolved user = %d, want %d", resolved.UserID, userID)
	}
	// Only the hash is at rest.
	if resolved.TokenHash == issued.Token {
		t.Fatal("plaintext token stored")
	}

	if _, err := ResolveAccessToken("pat_bogus"); err != ErrUnauthorized {
		t.Fatalf("unknown token err = %v, want ErrUnauthorized", err)
	}
}

func TestRevokedTokenRejected(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)

	issued, err := IssueAccessToken(userID, "ci")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	revoked, err := repository.RevokeAccessToken(issued.ID, userID)
	if err != nil || !revoked {
		t.Fatalf("RevokeAccessToken: %v revoked=%v", err, revoked)
	}

	if _, err := ResolveAccessToken(issued.Token); err != ErrUnauthorized {
		t.Fatalf("revoked token err = %v, want ErrUnauthorized", err)
	}
}
