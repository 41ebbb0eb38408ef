package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/formforge/backend/internal/config"
	"github.com/formforge/backend/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// newTestServer builds the full router with a disconnected store and no
// optional clients. Routes behind auth answer 401 to anonymous requests;
// public routes get past the middleware and hit the store instead, so they
// answer 503 here.
func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}
	store := database.NewSupervisor(database.Options{DSN: "postgres://nowhere/test"})
	return NewServer(cfg, Deps{Store: store})
}

func TestAnonymousRouteAccess(t *testing.T) {
	srv := newTestServer()

	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health reports store state", http.MethodGet, "/api/health", http.StatusServiceUnavailable},
		{"logout is public", http.MethodPost, "/api/auth/logout", http.StatusOK},
		{"change password needs auth", http.MethodPut, "/api/auth/change-password", http.StatusUnauthorized},
		{"public form view", http.MethodGet, "/api/forms/public/" + uuid.NewString(), http.StatusServiceUnavailable},
		{"single response view is public", http.MethodGet, "/api/responses/" + uuid.NewString(), http.StatusServiceUnavailable},
		{"response listing needs auth", http.MethodGet, "/api/responses/all", http.StatusUnauthorized},
		{"form listing needs auth", http.MethodGet, "/api/forms", http.StatusUnauthorized},
		{"submitting needs auth", http.MethodPost, "/api/responses", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(""))
			w := httptest.NewRecorder()
			srv.Engine().ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
