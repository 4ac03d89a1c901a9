package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-terminal-services/api/internal/config"
)

func testServer(audience string) *Server {
	return &Server{
		logger: log.New(io.Discard, "", 0),
		jwtConfigs: []config.JWTConfig{
			{Issuer: "survey-terminal-auth", Secret: []byte("terminal-secret")},
			{Issuer: "survey-operator-auth", Secret: []byte("operator-secret")},
		},
		jwtAudience: audience,
	}
}

func signToken(t *testing.T, secret []byte, claims jwt.RegisteredClaims, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		RegisteredClaims: claims,
		Name:             name,
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func terminalClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "survey-terminal-auth",
		Subject:   "t1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestParseAuthTokenAcceptsTerminalToken(t *testing.T) {
	srv := testServer("")
	token := signToken(t, []byte("terminal-secret"), terminalClaims(), "端末 1")

	claims, err := srv.parseAuthToken(token)
	require.NoError(t, err)
	require.Equal(t, "t1", claims.Subject)
	require.Equal(t, "端末 1", claims.Name)
}

func TestParseAuthTokenTriesEveryConfig(t *testing.T) {
	srv := testServer("")
	claims := terminalClaims()
	claims.Issuer = "survey-operator-auth"
	token := signToken(t, []byte("operator-secret"), claims, "")

	parsed, err := srv.parseAuthToken(token)
	require.NoError(t, err)
	require.Equal(t, "survey-operator-auth", parsed.Issuer)
}

func TestParseAuthTokenRejectsBadSignature(t *testing.T) {
	srv := testServer("")
	token := signToken(t, []byte("wrong-secret"), terminalClaims(), "")

	_, err := srv.parseAuthToken(token)
	require.Error(t, err)
}

func TestParseAuthTokenRejectsWrongIssuer(t *testing.T) {
	srv := testServer("")
	claims := terminalClaims()
	claims.Issuer = "someone-else"
	token := signToken(t, []byte("terminal-secret"), claims, "")

	_, err := srv.parseAuthToken(token)
	require.Error(t, err)
}

func TestParseAuthTokenRejectsExpired(t *testing.T) {
	srv := testServer("")
	claims := terminalClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, []byte("terminal-secret"), claims, "")

	_, err := srv.parseAuthToken(token)
	require.Error(t, err)
}

func TestParseAuthTokenRejectsMissingSubject(t *testing.T) {
	srv := testServer("")
	claims := terminalClaims()
	claims.Subject = ""
	token := signToken(t, []byte("terminal-secret"), claims, "")

	_, err := srv.parseAuthToken(token)
	require.Error(t, err)
}

func TestParseAuthTokenChecksAudience(t *testing.T) {
	srv := testServer("survey-api")

	claims := terminalClaims()
	token := signToken(t, []byte("terminal-secret"), claims, "")
	_, err := srv.parseAuthToken(token)
	require.Error(t, err)

	claims.Audience = jwt.ClaimStrings{"survey-api"}
	token = signToken(t, []byte("terminal-secret"), claims, "")
	parsed, err := srv.parseAuthToken(token)
	require.NoError(t, err)
	require.Equal(t, "t1", parsed.Subject)
}

func TestAuthMiddleware(t *testing.T) {
	srv := testServer("")
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := srv.authMiddleware(next)

	// ヘッダー無し。
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bearer 以外の形式。
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// 有効なトークン。
	token := signToken(t, []byte("terminal-secret"), terminalClaims(), "")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := withCORS([]string{"https://terminal.example.com"})(next)

	// 許可済みオリジン。
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://terminal.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "https://terminal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	// 未許可オリジンにはヘッダーを付けない。
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	// プリフライトは本体へ回さない。
	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://terminal.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWithCORSWildcard(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := withCORS([]string{"*"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "https://anywhere.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
