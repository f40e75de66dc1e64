package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"studio/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie is the cookie Clerk's frontend SDK stores the session token in.
const SessionCookie = "__session"

// SessionClaims are the Clerk session token claims the API relies on.
type SessionClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs an HS256 session token for userID with the
// configured JWT_SECRET_KEY. Used for local development and tests.
func GenerateSessionToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// sessionKey selects the verification key: Clerk's RS256 PEM key when
// configured, the HS256 secret otherwise.
func sessionKey(token *jwt.Token) (interface{}, error) {
	cfg := config.AppConfig
	if pem := strings.TrimSpace(cfg.ClerkJWTKey); pem != "" {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(cfg.JWTKey), nil
}

// VerifySessionToken parses and validates a session token and returns its claims.
func VerifySessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, sessionKey)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if parties := config.AppConfig.ClerkAuthorizedParties; len(parties) > 0 && claims.AuthorizedParty != "" {
		allowed := false
		for _, party := range parties {
			if party == claims.AuthorizedParty {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("unauthorized party %q", claims.AuthorizedParty)
		}
	}
	return claims, nil
}

// ClerkAuth checks for a valid session token in the Authorization header or
// the __session cookie and stores the Clerk user ID in c.Locals("userId").
func ClerkAuth(c *fiber.Ctx) error {
	var tokenString string
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}
		tokenString = strings.TrimSpace(authHeader[len("Bearer "):])
	} else {
		tokenString = c.Cookies(SessionCookie)
	}

	if tokenString == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	claims, err := VerifySessionToken(tokenString)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	c.Locals("userId", claims.Subject)
	return c.Next()
}

// UserID returns the authenticated Clerk user ID set by ClerkAuth.
func UserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userId").(string)
	return userID, ok && userID != ""
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
