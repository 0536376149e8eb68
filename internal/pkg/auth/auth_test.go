package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

func newTestService(now time.Time) *JWTService {
	s := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "mentorhub"})
	s.now = func() time.Time { return now }
	return s
}

func TestGenerateAndValidate(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	user := &models.User{ID: 42, Email: "mentor@college.edu", Role: models.RoleFaculty}

	token, expiresIn, err := s.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d", expiresIn)
	}

	claims, err := s.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleFaculty || claims.Email != user.Email {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateExpired(t *testing.T) {
	issued := time.Now().Add(-3 * time.Hour)
	token, _, err := newTestService(issued).GenerateAccessToken(&models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatal(err)
	}

	_, err = newTestService(time.Now()).ValidateToken(token)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Now()).GenerateAccessToken(&models.User{ID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "another", AccessTokenExp: time.Hour, TokenIssuer: "mentorhub"})
	if _, err := other.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer a.b.c", "a.b.c", false},
		{"\"Bearer a.b.c\"", "a.b.c", false},
		{"a.b.c", "a.b.c", false},
		{"", "", true},
		{"Basic dXNlcjpwYXNz", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
