package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/internal/application"
	"github.com/oksasatya/user-service/pkg/helpers"
	"github.com/oksasatya/user-service/pkg/response"
)

// AuthHandler serves the public account lifecycle endpoints.
type AuthHandler struct {
	Svc     AccountService
	Cookies *helpers.Manager
	Logger  logrus.FieldLogger
}

func NewAuthHandler(svc AccountService, cookies *helpers.Manager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.Register(c.Request.Context(), in), http.StatusCreated)
}

// Login POST /api/auth/login
// The token is returned in the body and also set as an HttpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res := h.Svc.Login(c.Request.Context(), in)
	if res.Success && h.Cookies != nil {
		h.Cookies.SetAccess(c, res.Data.Token, res.Data.ExpiresAt)
	}
	writeResult(c, res, http.StatusOK)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, nil, "Logged out", nil)
}

// ForgotPassword POST /api/auth/forgot-password {email}
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in application.EmailInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.ForgotPassword(c.Request.Context(), in), http.StatusOK)
}

// ResetPassword POST /api/auth/reset-password {email, otc, new_password}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in application.ResetPasswordInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.VerifyOtcAndResetPassword(c.Request.Context(), in), http.StatusOK)
}

// ConfirmEmail POST /api/auth/confirm-email {email, otc}
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var in application.ConfirmEmailInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.ConfirmEmail(c.Request.Context(), in), http.StatusOK)
}

// SendConfirmationOtc POST /api/auth/send-otc {email}
func (h *AuthHandler) SendConfirmationOtc(c *gin.Context) {
	var in application.EmailInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.SendConfirmationOtc(c.Request.Context(), in), http.StatusOK)
}
