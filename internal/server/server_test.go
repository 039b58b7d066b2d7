package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/growth-iq/api/internal/config"
	adminhttp "github.com/sngm3741/growth-iq/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

var testSecret = []byte("admin-secret")

func newTestServer() *Server {
	return &Server{
		logger:         log.New(io.Discard, "", 0),
		jwtConfigs:     []config.JWTConfig{{Issuer: "growth-iq-admin", Secret: testSecret}},
		jwtAudience:    "growth-iq",
		allowedOrigins: []string{"https://admin.example.com"},
	}
}

func signToken(t *testing.T, secret []byte, claims authClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func validClaims() authClaims {
	return authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-1",
			Issuer:    "growth-iq-admin",
			Audience:  jwt.ClaimStrings{"growth-iq"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Grace",
	}
}

func protectedRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		user, _ := commonhttp.UserFromContext(r.Context())
		_, _ = io.WriteString(w, user.ID+":"+user.Name)
	})
	return r
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims()))
	rec := httptest.NewRecorder()

	protectedRouter(s).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff-1:Grace", rec.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	s := newTestServer()

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"
	generalIssuer := validClaims()
	generalIssuer.Issuer = "growth-iq-auth"
	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noSubject := validClaims()
	noSubject.Subject = ""

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"empty token":    "Bearer ",
		"bad signature":  "Bearer " + signToken(t, []byte("other"), validClaims()),
		"wrong issuer":   "Bearer " + signToken(t, testSecret, wrongIssuer),
		"non-admin user": "Bearer " + signToken(t, testSecret, generalIssuer),
		"wrong audience": "Bearer " + signToken(t, testSecret, wrongAudience),
		"expired":        "Bearer " + signToken(t, testSecret, expired),
		"no subject":     "Bearer " + signToken(t, testSecret, noSubject),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protectedRouter(s).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestWithCORS(t *testing.T) {
	handler := withCORS([]string{"https://admin.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/admin/submissions", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")

	req = httptest.NewRequest(http.MethodGet, "/quiz/questions", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := newTestServer()
	s.adminHandler = adminhttp.NewHandler(adminhttp.Config{Logger: s.logger})
	router := s.routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/submissions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims()))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"staff-1"`)
}

func TestNormaliseBaseURL(t *testing.T) {
	assert.Equal(t, "https://admin.example.com", normaliseBaseURL(" https://admin.example.com/ "))
	assert.Empty(t, normaliseBaseURL("  "))
}
