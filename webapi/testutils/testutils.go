// Package testutils holds shared helpers for webapi handler tests.
package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/config"
	"github.com/stretchr/testify/require"
)

// TestJwtSecret is the signing secret used by handler tests.
const TestJwtSecret = "test-secret"

// TestConfig returns an app config suitable for handler tests.
func TestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Jwt:    &config.Jwt{Secret: TestJwtSecret, Expiry: time.Hour},
		Stripe: &config.Stripe{SigningSecret: "whsec_test"},
	}
}

// SignToken signs a test JWT for the given subject and role.
func SignToken(t *testing.T, sub uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestJwtSecret))
	require.NoError(t, err)
	return signed
}

// MakeRequest performs an in-process request against the fiber app and
// returns the response.
func MakeRequest(
	t *testing.T,
	app *fiber.App,
	method, path, body, token string,
) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// DecodeBody decodes a JSON response body into a generic map.
func DecodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
