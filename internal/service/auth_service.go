package service

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"org-service/internal/model"
	"org-service/internal/token"
	"org-service/pkg/apierror"
)

const minPasswordLength = 6

// Generic signed-token shape: three dot-separated base64url segments.
// A structural check only, not a signature check.
var bearerTokenShape = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type RevocationStore interface {
	Revoke(ctx context.Context, tokenString string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

type AuthService struct {
	users   UserStore
	revoked RevocationStore
	codec   *token.Codec
	issuer  *token.Issuer
}

func NewAuthService(users UserStore, revoked RevocationStore, codec *token.Codec, issuer *token.Issuer) *AuthService {
	return &AuthService{users: users, revoked: revoked, codec: codec, issuer: issuer}
}

func (s *AuthService) SignUp(ctx context.Context, name string, email string, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" {
		return apierror.New("BAD_REQUEST", "name and email are required", "", http.StatusBadRequest)
	}
	if len(password) < minPasswordLength {
		return apierror.New("BAD_REQUEST", "password must be at least 6 characters", "", http.StatusBadRequest)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return emailConflict()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	// The pre-check above can race with a concurrent sign-up; the store's
	// unique constraint settles it.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return emailConflict()
		}
		return err
	}

	return nil
}

func (s *AuthService) SignIn(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		// Same outcome as a wrong password so callers cannot probe for
		// registered emails.
		return model.TokenPair{}, invalidCredentials()
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, invalidCredentials()
	}

	return s.issuer.Issue(user)
}

// Refresh rotates a full token pair from a valid, non-revoked refresh
// token. The presented token stays valid until its natural expiry or an
// explicit revoke.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	revoked, err := s.revoked.IsRevoked(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	if revoked {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "refresh token has been revoked", "", http.StatusUnauthorized)
	}

	claims, err := s.codec.Decode(refreshToken)
	if err != nil || claims.Class != token.ClassRefresh {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "invalid refresh token", "", http.StatusUnauthorized)
	}

	// Claims may be stale relative to identity deletion; re-verify.
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, apierror.New("NOT_FOUND", "user not found", "", http.StatusNotFound)
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issuer.Issue(user)
}

// RevokeRefreshToken marks the given refresh token revoked for its
// remaining lifetime. An identity may only revoke its own tokens.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, refreshToken string, actor model.Principal) error {
	if !bearerTokenShape.MatchString(refreshToken) {
		return apierror.New("BAD_REQUEST", "invalid refresh token format", "", http.StatusBadRequest)
	}

	claims, err := s.codec.Decode(refreshToken)
	if err != nil || claims.Class != token.ClassRefresh {
		return apierror.New("UNAUTHORIZED", "invalid or expired refresh token", "", http.StatusUnauthorized)
	}

	if claims.UserID != actor.ID {
		return apierror.New("FORBIDDEN", "you do not have permission to revoke this token", "", http.StatusForbidden)
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl < 0 {
		ttl = 0
	}

	return s.revoked.Revoke(ctx, refreshToken, ttl)
}

func invalidCredentials() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "invalid email or password", "", http.StatusUnauthorized)
}

// Duplicate email maps to 400 per the published interface, with the
// CONFLICT code preserved in the body.
func emailConflict() *apierror.APIError {
	return apierror.New("CONFLICT", "email already registered", "", http.StatusBadRequest)
}
