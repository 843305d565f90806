package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/config"
	"ATRAX_BACK-END/internal/utils"
)

// JWTClaims represents the claims in the JWT token
type JWTClaims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens carrying a user id
type TokenService interface {
	Sign(userID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}

// JWTService is the HS256 TokenService
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a JWTService from configuration
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret), ttl: cfg.AccessTokenTTL, now: time.Now}
}

// Sign generates a JWT token for the given user
func (s *JWTService) Sign(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a JWT token and returns the user id it carries
func (s *JWTService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeInvalidToken, "Invalid token", err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return claims.UserID, nil
}

// AuthMiddleware validates the bearer token in the Authorization header and
// puts the user id in the request context.
func AuthMiddleware(tokens TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, apperrors.CodeUnauthorized, "Unauthorized")
				return
			}

			// Extract token from "Bearer <token>"
			scheme, tokenString, _ := strings.Cut(strings.TrimSpace(authHeader), " ")
			tokenString = strings.TrimSpace(tokenString)
			if !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, apperrors.CodeUnauthorized, "Unauthorized")
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, apperrors.CodeInvalidToken, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
		})
	}
}
