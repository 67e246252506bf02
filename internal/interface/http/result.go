package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-service/internal/application"
	"github.com/oksasatya/user-service/pkg/response"
	"github.com/oksasatya/user-service/pkg/validation"
)

// AccountService is the application surface used by the HTTP handlers.
type AccountService interface {
	Register(ctx context.Context, in application.RegisterInput) application.Result[application.AccountView]
	Login(ctx context.Context, in application.LoginInput) application.Result[application.LoginResponse]
	ForgotPassword(ctx context.Context, in application.EmailInput) application.Result[application.Empty]
	SendConfirmationOtc(ctx context.Context, in application.EmailInput) application.Result[application.Empty]
	VerifyOtcAndResetPassword(ctx context.Context, in application.ResetPasswordInput) application.Result[application.Empty]
	ConfirmEmail(ctx context.Context, in application.ConfirmEmailInput) application.Result[application.Empty]
	ChangePassword(ctx context.Context, accountID int64, in application.ChangePasswordInput) application.Result[application.Empty]
	UpdateAvatar(ctx context.Context, accountID int64, f application.AvatarFile) application.Result[application.AvatarResponse]
	GetProfile(ctx context.Context, username string) application.Result[application.AccountView]
	UpdateProfile(ctx context.Context, accountID int64, in application.UpdateProfileInput) application.Result[application.AccountView]
	SearchProfiles(ctx context.Context, q string, size int) application.Result[[]application.ProfileDocument]
}

var _ AccountService = (*application.AccountService)(nil)

func statusFor(k application.Kind) int {
	switch k {
	case application.KindOK:
		return http.StatusOK
	case application.KindValidation, application.KindInvalidCode:
		return http.StatusBadRequest
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindConflict:
		return http.StatusConflict
	case application.KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeResult renders a service result. okStatus is used on success.
func writeResult[T any](c *gin.Context, r application.Result[T], okStatus int) {
	if r.Success {
		response.Success(c, okStatus, r.Data, r.Message, nil)
		return
	}
	var details any
	if !r.Errors.Empty() {
		details = r.Errors
	}
	response.Error[any](c, statusFor(r.Kind), r.Message, details)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}
