package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ClassAccess  = "access"
	ClassRefresh = "refresh"
)

// ErrInvalid covers every decode failure: bad signature, malformed
// token, or expiry at or before the time of verification. Callers must
// not be able to tell these apart.
var ErrInvalid = errors.New("invalid token")

type Claims struct {
	UserID    string
	Name      string
	Email     string
	Class     string
	TokenID   string
	ExpiresAt time.Time
}

// Codec signs and verifies bearer tokens with a shared HMAC secret.
// Secret and algorithm are fixed at construction; a Codec is immutable
// and safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

func NewCodec(secret string, algorithm string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("signing secret is required")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not HMAC", algorithm)
	}

	return &Codec{secret: []byte(secret), method: method}, nil
}

func (c *Codec) Encode(claims Claims) (string, error) {
	t := jwt.NewWithClaims(c.method, jwt.MapClaims{
		"sub":   claims.UserID,
		"name":  claims.Name,
		"email": claims.Email,
		"typ":   claims.Class,
		"jti":   claims.TokenID,
		"iat":   time.Now().UTC().Unix(),
		"exp":   claims.ExpiresAt.Unix(),
	})

	return t.SignedString(c.secret)
}

// Decode verifies the signature and expiry against the current wall
// clock and returns the embedded claims.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}

	claims := Claims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Name, _ = claimsMap["name"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Class, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	exp, _ := claimsMap["exp"].(float64)
	claims.ExpiresAt = time.Unix(int64(exp), 0).UTC()

	if claims.UserID == "" || claims.Class == "" {
		return Claims{}, ErrInvalid
	}

	return claims, nil
}
