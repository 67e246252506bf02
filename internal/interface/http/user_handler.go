package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/internal/application"
	"github.com/oksasatya/user-service/internal/interface/middleware"
	"github.com/oksasatya/user-service/pkg/response"
	"github.com/oksasatya/user-service/pkg/validation"
)

// avatarFormField is the multipart field carrying the image.
const avatarFormField = "avatar"

type UserHandler struct {
	Svc    AccountService
	Logger logrus.FieldLogger
}

func NewUserHandler(svc AccountService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func currentAccount(c *gin.Context) (int64, bool) {
	id, ok := middleware.AccountID(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
	}
	return id, ok
}

// GetProfile GET /api/users/profile/:username
func (h *UserHandler) GetProfile(c *gin.Context) {
	writeResult(c, h.Svc.GetProfile(c.Request.Context(), c.Param("username")), http.StatusOK)
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}
	var in application.UpdateProfileInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.UpdateProfile(c.Request.Context(), id, in), http.StatusOK)
}

// ChangePassword PUT /api/users/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}
	var in application.ChangePasswordInput
	if !bindJSON(c, &in) {
		return
	}
	writeResult(c, h.Svc.ChangePassword(c.Request.Context(), id, in), http.StatusOK)
}

// UpdateAvatar POST /api/users/avatar (multipart, field "avatar")
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, application.MaxAvatarBytes+1<<20)
	fh, err := c.FormFile(avatarFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// the service reports the missing file as a field error
			writeResult(c, h.Svc.UpdateAvatar(c.Request.Context(), id, application.AvatarFile{}), http.StatusOK)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "invalid multipart payload", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).WithField("account_id", id).Error("open avatar upload")
		response.Error[any](c, http.StatusInternalServerError, "An internal error occurred, please try again later", nil)
		return
	}
	defer func() { _ = f.Close() }()

	writeResult(c, h.Svc.UpdateAvatar(c.Request.Context(), id, application.AvatarFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}), http.StatusOK)
}

type searchQuery struct {
	Q    string `form:"q" json:"q" binding:"max=100"`
	Size string `form:"size" json:"size"`
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	size, _ := strconv.Atoi(q.Size)
	writeResult(c, h.Svc.SearchProfiles(c.Request.Context(), q.Q, size), http.StatusOK)
}
