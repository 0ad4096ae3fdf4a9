package auth

import (
	"crypto/rsa"
	"errors"
	"strings"
	"time"

	"github.com/feepo/feepo/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenScheme prefixes issued tokens so clients can echo the value back
// in the Authorization header verbatim.
const TokenScheme = "Bearer"

// Claims carried by issued tokens. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken builds a signed RS256 bearer token for userID with the given
// validity window. It returns the scheme-prefixed token and the
// human-readable validity string reported to clients.
func IssueToken(userID string, key *rsa.PrivateKey, validity time.Duration) (string, string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	})

	signed, err := token.SignedString(key)
	if err != nil {
		return "", "", err
	}

	return TokenScheme + " " + signed, validity.String(), nil
}

// GetUserIDFromToken verifies tokenString against the public key and
// returns the subject claim. The signing algorithm is pinned to RS256;
// whatever the token header declares is ignored.
func GetUserIDFromToken(tokenString string, key *rsa.PublicKey) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

// StripTokenScheme removes the "Bearer " prefix from an Authorization
// header value. Returns an error when the scheme is missing or different.
func StripTokenScheme(header string) (string, error) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != TokenScheme || token == "" {
		return "", common.ErrInvalidToken
	}
	return token, nil
}
