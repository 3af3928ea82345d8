package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

func claimsEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(claims.UserName))
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setup      func(m *mocks.MockAuthenticator)
		wantStatus int
		wantBody   string
	}{
		{
			name: "autenticação desabilitada",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Enabled().Return(false)
			},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name: "sem header",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Enabled().Return(true)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "sem Bearer",
			header: "Token abc",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Enabled().Return(true)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "token expirado",
			header: "Bearer velho",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Enabled().Return(true)
				m.EXPECT().ValidateToken("velho").Return(nil,
					authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, ""))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "token válido",
			header: "Bearer bom",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Enabled().Return(true)
				m.EXPECT().ValidateToken("bom").Return(&domain.Claims{UserName: "admin", UserRoleID: domain.RoleAdmin}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			tt.setup(auth)

			req := httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(auth)(claimsEcho()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "sem claims", wantStatus: http.StatusUnauthorized},
		{name: "viewer", claims: &domain.Claims{UserName: "v", UserRoleID: domain.RoleViewer}, wantStatus: http.StatusForbidden},
		{name: "admin", claims: &domain.Claims{UserName: "a", UserRoleID: domain.RoleAdmin}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/cron/backup/run", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			AdminOnly()(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := Cors([]string{"http://localhost:8050"})(next)

	t.Run("origem permitida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Origin", "http://localhost:8050")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:8050", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origem desconhecida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/datasets/videogames/uploads", nil)
		req.Header.Set("Origin", "http://localhost:8050")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()

	LoggingMiddleware()(LogPanicMiddleware()(panicking)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}
