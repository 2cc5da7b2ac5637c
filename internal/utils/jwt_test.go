package utils

import (
	"strings"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, RoleGuest, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if time.Until(tok.Exp) <= 59*time.Minute {
		t.Errorf("Exp = %v, want about an hour from now", tok.Exp)
	}

	id, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if id.UserID != 42 || id.Role != RoleGuest {
		t.Errorf("identity = %+v, want guest 42", id)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, _ := NewAccessToken("secret", 1, RoleHost, time.Hour)
	expired, _ := NewAccessToken("secret", 1, RoleHost, -time.Minute)
	badRole, _ := NewAccessToken("secret", 1, "owner", time.Hour)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{name: "wrong secret", secret: "other", raw: good.Token},
		{name: "expired", secret: "secret", raw: expired.Token},
		{name: "unknown role", secret: "secret", raw: badRole.Token},
		{name: "garbage", secret: "secret", raw: "not.a.jwt"},
		{name: "unsigned", secret: "secret", raw: good.Token[:strings.LastIndex(good.Token, ".")+1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessToken(tt.secret, tt.raw); err == nil {
				t.Error("ParseAccessToken() accepted the token")
			}
		})
	}
}
