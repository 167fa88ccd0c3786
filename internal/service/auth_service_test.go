package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"org-service/internal/model"
	"org-service/internal/token"
	"org-service/pkg/apierror"
)

func newTestAuthService(t *testing.T) (*AuthService, *memUserStore, *memRevocationStore, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec("test-secret", "HS256")
	require.NoError(t, err)
	issuer := token.NewIssuer(codec, 600*time.Second, 720*time.Hour)

	users := newMemUserStore()
	revoked := newMemRevocationStore()

	return NewAuthService(users, revoked, codec, issuer), users, revoked, codec
}

func signUpAndIn(t *testing.T, svc *AuthService, name string, email string, password string) model.TokenPair {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, svc.SignUp(ctx, name, email, password))

	pair, err := svc.SignIn(ctx, email, password)
	require.NoError(t, err)
	return pair
}

func requireStatus(t *testing.T, err error, status int) *apierror.APIError {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus)
	return apiErr
}

func TestSignUpThenDuplicateConflicts(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "A", "a@x.com", "abcdef"))

	err := svc.SignUp(ctx, "A", "a@x.com", "abcdef")
	apiErr := requireStatus(t, err, http.StatusBadRequest)
	require.Equal(t, "CONFLICT", apiErr.Code)
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	err := svc.SignUp(context.Background(), "A", "a@x.com", "abc")
	apiErr := requireStatus(t, err, http.StatusBadRequest)
	require.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestSignUpStoresOnlyHashedSecret(t *testing.T) {
	svc, users, _, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "A", "a@x.com", "abcdef"))

	user, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)
	require.NotContains(t, user.PasswordHash, "abcdef")
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "A", "a@x.com", "abcdef"))

	_, wrongPassword := svc.SignIn(ctx, "a@x.com", "wrong-password")
	_, unknownEmail := svc.SignIn(ctx, "nobody@x.com", "abcdef")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	require.Equal(t, wrongPassword, unknownEmail)
	requireStatus(t, wrongPassword, http.StatusUnauthorized)
}

func TestSignInIssuesDistinctTokenPair(t *testing.T) {
	svc, _, _, codec := newTestAuthService(t)

	pair := signUpAndIn(t, svc, "A", "a@x.com", "abcdef")
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.ClassAccess, access.Class)

	refresh, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, token.ClassRefresh, refresh.Class)
}

func TestRefreshRotatesPairAndKeepsOldTokenValid(t *testing.T) {
	svc, _, _, codec := newTestAuthService(t)
	ctx := context.Background()

	pair := signUpAndIn(t, svc, "A", "a@x.com", "abcdef")

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	oldClaims, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	newClaims, err := codec.Decode(rotated.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, oldClaims.TokenID, newClaims.TokenID)

	// No automatic single-use invalidation: the original refresh token
	// still works.
	again, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, again.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	pair := signUpAndIn(t, svc, "A", "a@x.com", "abcdef")

	_, err := svc.Refresh(context.Background(), pair.AccessToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "not.a.token")
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestRefreshFailsWhenUserGone(t *testing.T) {
	svc, users, _, codec := newTestAuthService(t)
	ctx := context.Background()

	pair := signUpAndIn(t, svc, "A", "a@x.com", "abcdef")

	claims, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	users.delete(claims.UserID)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	requireStatus(t, err, http.StatusNotFound)
}

func TestRevokedTokenCannotRefresh(t *testing.T) {
	svc, _, _, codec := newTestAuthService(t)
	ctx := context.Background()

	pair := signUpAndIn(t, svc, "A", "a@x.com", "abcdef")

	claims, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	actor := model.Principal{ID: claims.UserID, Name: claims.Name, Email: claims.Email}

	require.NoError(t, svc.RevokeRefreshToken(ctx, pair.RefreshToken, actor))

	// Decode alone would still succeed; the revocation state blocks it.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	apiErr := requireStatus(t, err, http.StatusUnauthorized)
	require.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestRevokeRejectsMalformedTokenShape(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	actor := model.Principal{ID: "user-1"}
	for _, raw := range []string{"", "onesegment", "two.segments", "bad.token.with!chars"} {
		err := svc.RevokeRefreshToken(context.Background(), raw, actor)
		requireStatus(t, err, http.StatusBadRequest)
	}
}

func TestRevokeByNonOwnerForbiddenAndTokenStaysUsable(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	signUpAndIn(t, svc, "A", "a@x.com", "abcdef")
	pairB := signUpAndIn(t, svc, "B", "b@x.com", "abcdef")

	// A tries to revoke B's token.
	actorA, err := svc.users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	err = svc.RevokeRefreshToken(ctx, pairB.RefreshToken, model.Principal{ID: actorA.ID, Name: actorA.Name, Email: actorA.Email})
	requireStatus(t, err, http.StatusForbidden)

	// B's token remains usable afterward.
	_, err = svc.Refresh(ctx, pairB.RefreshToken)
	require.NoError(t, err)
}

func TestRevokeTTLMatchesRemainingLifetime(t *testing.T) {
	svc, _, revoked, codec := newTestAuthService(t)
	ctx := context.Background()

	pair := signUpAndIn(t, svc, "A", "a@x.com", "abcdef")

	claims, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	actor := model.Principal{ID: claims.UserID}

	require.NoError(t, svc.RevokeRefreshToken(ctx, pair.RefreshToken, actor))

	remaining := time.Until(claims.ExpiresAt)
	require.InDelta(t, remaining.Seconds(), revoked.lastTTL.Seconds(), 5)
}
