package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	previous := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = previous })
}

func whoAmIApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", ClerkAuth, func(c *fiber.Ctx) error {
		userID, _ := UserID(c)
		return JsonResponse(c, fiber.StatusOK, true, "ok", userID)
	})
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestClerkAuthAcceptsSignedBearerToken(t *testing.T) {
	setTestConfig(t, &config.Config{JWTKey: "secret"})

	token, err := GenerateSessionToken("user_123", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, env := call(t, whoAmIApp(), req)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"user_123"`, string(env.Data))
}

func TestClerkAuthReadsSessionCookie(t *testing.T) {
	setTestConfig(t, &config.Config{JWTKey: "secret"})

	token, err := GenerateSessionToken("user_cookie", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	status, env := call(t, whoAmIApp(), req)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"user_cookie"`, string(env.Data))
}

func TestClerkAuthRejections(t *testing.T) {
	setTestConfig(t, &config.Config{JWTKey: "secret"})

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"},
	}).SignedString([]byte("other"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Token abc"},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "expired", header: "Bearer " + expired},
		{name: "wrong secret", header: "Bearer " + wrongSecret},
		{name: "no subject", header: "Bearer " + noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			status, env := call(t, whoAmIApp(), req)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.False(t, env.Status)
		})
	}
}

func rsaPEM(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(block)
}

func TestVerifySessionTokenWithClerkPublicKey(t *testing.T) {
	key, publicPEM := rsaPEM(t)
	setTestConfig(t, &config.Config{
		JWTKey:                 "secret",
		ClerkJWTKey:            publicPEM,
		ClerkAuthorizedParties: []string{"https://studio.example.com"},
	})

	sign := func(azp string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, SessionClaims{
			AuthorizedParty: azp,
			SessionID:       "sess_1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_rs",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString(key)
		require.NoError(t, err)
		return token
	}

	claims, err := VerifySessionToken(sign("https://studio.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "user_rs", claims.Subject)
	assert.Equal(t, "sess_1", claims.SessionID)

	_, err = VerifySessionToken(sign("https://evil.example.com"))
	assert.Error(t, err)

	// HS256 tokens are refused once a Clerk key is configured.
	hs, err := GenerateSessionToken("user_hs", time.Minute)
	require.NoError(t, err)
	_, err = VerifySessionToken(hs)
	assert.Error(t, err)
}
