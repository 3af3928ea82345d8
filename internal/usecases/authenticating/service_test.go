package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *Service {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh@Forte"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewService(&config.Config{Auth: config.Auth{
		Enabled:           true,
		Secret:            "segredo-de-teste",
		AdminUser:         "admin",
		AdminPasswordHash: string(hash),
		TokenTTL:          time.Hour,
	}})
}

func TestLoginUser(t *testing.T) {
	service := newAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "credenciais corretas", username: "admin", password: "s3nh@Forte"},
		{name: "usuário com espaços", username: " admin ", password: "s3nh@Forte"},
		{name: "senha incorreta", username: "admin", password: "errada", wantErr: ErrInvalidCredentials},
		{name: "usuário desconhecido", username: "root", password: "s3nh@Forte", wantErr: ErrInvalidCredentials},
		{name: "campos vazios", username: "", password: "", wantErr: ErrMissingRequiredData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.LoginUser(tt.username, tt.password)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, IsCredentialsError(err))
				return
			}

			require.NoError(t, err)
			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.UserName)
			assert.Equal(t, domain.RoleAdmin, claims.UserRoleID)
		})
	}
}

func TestLoginUser_NoHashConfigured(t *testing.T) {
	service := NewService(&config.Config{Auth: config.Auth{AdminUser: "admin", Secret: "x"}})

	_, err := service.LoginUser("admin", "qualquer")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestValidateToken(t *testing.T) {
	service := newAuthService(t)

	token, err := service.LoginUser("admin", "s3nh@Forte")
	require.NoError(t, err)

	t.Run("expirado", func(t *testing.T) {
		expired := *service
		expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := expired.ValidateToken(token)
		assert.True(t, errors.Is(err, ErrExpiredToken))
	})

	t.Run("assinado com outro segredo", func(t *testing.T) {
		other := *service
		other.cfg.Secret = "outro"

		_, err := other.ValidateToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("algoritmo inesperado", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, domain.Claims{UserName: "admin"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(unsigned)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("lixo", func(t *testing.T) {
		_, err := service.ValidateToken("abc.def")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}
