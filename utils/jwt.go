package utils

import (
	"errors"
	"strconv"
	"time"

	"notifyhub/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "notifyhub-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT token with the given user id as subject.
// The token expires after the specified duration.
func GenerateToken(userID int64, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractUserIDFromToken extracts the numeric user id (subject) from a valid
// JWT token string.
func ExtractUserIDFromToken(tokenString string) (int64, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0, errors.New("token does not contain a valid 'sub' claim")
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("token 'sub' claim is not a numeric user id")
	}
	return id, nil
}
