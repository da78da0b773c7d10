package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenLifetime = 24 * time.Hour

// Issuer signs and validates the HS256 bearer tokens used by the API.
// The subject claim carries the user's stable ID.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret cannot be empty")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

type TokenData struct {
	Sub string
	Exp int64
}

func (i *Issuer) Generate(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses AND validates the signature.
// It returns the data if the token is authentic and unexpired.
func (i *Issuer) Validate(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	token, err := jwt.Parse(clean, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	return &TokenData{
		Sub: getValue(claims, "sub"),
		Exp: getInt64(claims, "exp"),
	}, nil
}

func (i *Issuer) ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	raw := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return i.Validate(raw)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
