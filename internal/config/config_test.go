package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, ProviderLog, cfg.Email.Provider)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 2, cfg.Notify.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParse_OriginList(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("ORIGIN", "https://a.example,https://b.example")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing jwt secret",
			env:  map[string]string{"STORE_DRIVER": "memory"},
			want: "JWT_SECRET is required",
		},
		{
			name: "postgres without password",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "postgres"},
			want: "DB_PASSWORD is required",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "sqlite"},
			want: `unknown STORE_DRIVER "sqlite"`,
		},
		{
			name: "resend without key",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "memory", "EMAIL_PROVIDER": "resend", "EMAIL_FROM": "a@b.c"},
			want: "RESEND_API_KEY is required",
		},
		{
			name: "provider without sender address",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "memory", "EMAIL_PROVIDER": "sendgrid", "SENDGRID_API_KEY": "k"},
			want: "EMAIL_FROM is required",
		},
		{
			name: "credentials with wildcard origin",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "memory", "CORS_ALLOW_CREDENTIALS": "true"},
			want: "CORS_ALLOW_CREDENTIALS requires an explicit ORIGIN",
		},
		{
			name: "zero workers",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "memory", "NOTIFY_WORKERS": "0"},
			want: "NOTIFY_WORKERS must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw", Name: "events",
		SSLMode: "require", ConnTimeout: 10 * time.Second,
	}}

	assert.Equal(t, "postgres://app:pw@db:5432/events?connect_timeout=10&sslmode=require", cfg.GetDSN())
}

func TestGetDSN_EscapesCredentials(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "app@corp", Password: "p@ss/w:rd?", Name: "events",
		SSLMode: "disable", ConnTimeout: 5 * time.Second,
	}}

	u, err := url.Parse(cfg.GetDSN())
	require.NoError(t, err)
	assert.Equal(t, "app@corp", u.User.Username())
	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss/w:rd?", pw)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/events", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestParse_CredentialsWithExplicitOrigin(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ORIGIN", "https://app.example")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.CORS.AllowCredentials)
}
