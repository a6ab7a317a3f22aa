package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the owner identity carried by the primary auth system.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

func GenerateToken(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(token *jwtlib.Token) (interface{}, error) {
		if token.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ShareClaims binds a viewer access token to one (link, email) pair.
// The token is self-contained; liveness of the link is re-checked on
// every use, never trusted from the claims.
type ShareClaims struct {
	LinkToken string `json:"link_token"`
	Email     string `json:"email"`
	jwtlib.RegisteredClaims
}

var ErrShareTokenExpired = errors.New("share token expired")

func GenerateShareToken(linkToken, email string, secret []byte, expiresAt time.Time) (string, error) {
	claims := ShareClaims{
		LinkToken: linkToken,
		Email:     email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseShareToken(tokenString string, secret []byte) (*ShareClaims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &ShareClaims{}, func(token *jwtlib.Token) (interface{}, error) {
		if token.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrShareTokenExpired
		}
		return nil, err
	}
	claims, ok := token.Claims.(*ShareClaims)
	if !ok || !token.Valid || claims.LinkToken == "" || claims.Email == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
