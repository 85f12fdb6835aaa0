package middleware

import (
	"crypto/rsa"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const clerkIDKey = "clerkID"

// SessionVerifier validates identity provider session tokens.
type SessionVerifier struct {
	key *rsa.PublicKey
}

// NewSessionVerifier parses the PEM encoded public key. An empty key gives a
// verifier that rejects every token.
func NewSessionVerifier(pemKey string) (*SessionVerifier, error) {
	if strings.TrimSpace(pemKey) == "" {
		return &SessionVerifier{}, nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, err
	}
	return &SessionVerifier{key: key}, nil
}

// Subject returns the sub claim of a valid token.
func (v *SessionVerifier) Subject(tokenString string) (string, error) {
	if v.key == nil {
		return "", errors.New("session key is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("subject not found in token claims")
	}
	return sub, nil
}

func AuthMiddleware(verifier *SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header is required",
			})
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid authorization header format",
			})
		}

		clerkID, err := verifier.Subject(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   msg,
			})
		}

		c.Locals(clerkIDKey, clerkID)
		return c.Next()
	}
}

// ClerkID returns the authenticated identity provider user id.
func ClerkID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(clerkIDKey).(string)
	return id, ok && id != ""
}
