package token

import (
	"time"

	"github.com/google/uuid"

	"org-service/internal/model"
)

// Issuer mints an access/refresh pair for a verified identity. Both
// tokens carry the same subject claims so refresh can rebuild an access
// token without a second identity lookup.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(codec *Codec, accessTTL time.Duration, refreshTTL time.Duration) *Issuer {
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *Issuer) Issue(user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := i.codec.Encode(Claims{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Class:     ClassAccess,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(i.accessTTL),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := i.codec.Encode(Claims{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Class:     ClassRefresh,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(i.refreshTTL),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
