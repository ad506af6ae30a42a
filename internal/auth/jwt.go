package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

func GenerateToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Identity is what a verified token says about the caller.
type Identity struct {
	UserID   string
	Email    string
	ImageURL string
}

func ParseToken(secret []byte, tokenString string) (string, error) {
	id, err := ParseIdentity(secret, tokenString)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}

func ParseIdentity(secret []byte, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{}
	id.Email, _ = claims["email"].(string)
	id.ImageURL, _ = claims["image_url"].(string)

	// older tokens carried a numeric id
	switch v := claims["user_id"].(type) {
	case string:
		id.UserID = v
	case float64:
		id.UserID = strconv.FormatInt(int64(v), 10)
	}
	if id.UserID == "" {
		return Identity{}, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}
	return id, nil
}
