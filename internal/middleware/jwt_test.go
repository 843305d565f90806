package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/config"
	"ATRAX_BACK-END/internal/utils"
)

func newTestJWT(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{Secret: secret, AccessTokenTTL: time.Hour})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT("super-secret")
	userID := uuid.New()

	tok, err := svc.Sign(userID)
	require.NoError(t, err)

	got, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT("secret")
	tok, err := svc.Sign(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Verify(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	tok, err := newTestJWT("right-secret").Sign(uuid.New())
	require.NoError(t, err)

	_, err = newTestJWT("wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := JWTClaims{UserID: uuid.New()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWT("secret").Verify(tok)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	svc := newTestJWT("secret")
	userID := uuid.New()
	valid, err := svc.Sign(userID)
	require.NoError(t, err)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthMiddleware(svc)(next)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"no header", "", http.StatusUnauthorized, `{"message":"Unauthorized","code":"UNAUTHORIZED"}`},
		{"scheme only", "Bearer", http.StatusUnauthorized, `{"message":"Unauthorized","code":"UNAUTHORIZED"}`},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `{"message":"Unauthorized","code":"UNAUTHORIZED"}`},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, `{"message":"Invalid token","code":"INVALID_TOKEN"}`},
		{"valid token", "Bearer " + valid, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodPost, "/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
				assert.Equal(t, uuid.Nil, seen)
			} else {
				assert.Equal(t, userID, seen)
			}
		})
	}
}
