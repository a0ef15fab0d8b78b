package sessioncookie

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed session context carried by the client between
// requests: the opaque session token plus the display name. The cookie is
// only a transport for the pair; resource authorization always compares the
// token against the owner recorded on the resource.
type Claims struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func Sign(secret string, ttl time.Duration, token, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		Token: token,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session cookie failed: %w", err)
	}
	return signed, nil
}

func Parse(secret, raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session cookie failed: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session cookie claims")
	}
	if claims.Token == "" {
		return nil, errors.New("session cookie has no token")
	}
	return claims, nil
}
