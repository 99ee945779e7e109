package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that does not verify:
// bad signature, wrong algorithm, or malformed structure. Callers get
// no finer distinction.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user identity inside the token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// IssueToken signs a token binding userID to the process secret.
// No expiration claim is set: issued tokens stay valid indefinitely.
func IssueToken(userID string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and returns the embedded userID.
// Whether that userID still references an existing user is the
// caller's problem.
func ParseToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
