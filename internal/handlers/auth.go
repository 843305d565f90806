package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ATRAX_BACK-END/internal/dto"
	"ATRAX_BACK-END/internal/services"
	"ATRAX_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
	log  logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *services.AuthService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{auth: auth, log: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account and return a bearer token. A welcome email is sent asynchronously.
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing field or email already registered"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	sess, err := h.auth.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.AuthResponse{
		Token:  sess.Token,
		UserID: sess.User.ID.String(),
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password and return a bearer token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "User login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Token:  sess.Token,
		UserID: sess.User.ID.String(),
	})
}
