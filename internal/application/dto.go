package application

import (
	"io"
	"time"

	"github.com/oksasatya/user-service/internal/domain/entity"
)

type RegisterInput struct {
	Username     string     `json:"username"`
	Password     string     `json:"password"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Bio          string     `json:"bio"`
	Birthday     *time.Time `json:"birthday"`
	GithubLink   string     `json:"github_link"`
	LinkedInLink string     `json:"linkedin_link"`
}

type LoginInput struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type EmailInput struct {
	Email string `json:"email"`
}

type ResetPasswordInput struct {
	Email       string `json:"email"`
	Otc         string `json:"otc"`
	NewPassword string `json:"new_password"`
}

type ConfirmEmailInput struct {
	Email string `json:"email"`
	Otc   string `json:"otc"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UpdateProfileInput struct {
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	Bio          string     `json:"bio"`
	Birthday     *time.Time `json:"birthday"`
	GithubLink   string     `json:"github_link"`
	LinkedInLink string     `json:"linkedin_link"`
}

// AvatarFile is an uploaded image. Body is read once.
type AvatarFile struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AccountView is the public shape of an account. It never carries the password hash.
type AccountView struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	Bio              string     `json:"bio,omitempty"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	GithubLink       string     `json:"github_link,omitempty"`
	LinkedInLink     string     `json:"linkedin_link,omitempty"`
	Avatar           string     `json:"avatar,omitempty"`
	IsEmailConfirmed bool       `json:"is_email_confirmed"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewAccountView(a *entity.Account) AccountView {
	return AccountView{
		ID:               a.ID,
		Username:         a.Username,
		Email:            a.Email,
		FullName:         a.FullName,
		Bio:              a.Bio,
		Birthday:         a.Birthday,
		GithubLink:       a.GithubLink,
		LinkedInLink:     a.LinkedInLink,
		Avatar:           a.Avatar,
		IsEmailConfirmed: a.IsEmailConfirmed,
		CreatedAt:        a.CreatedAt,
	}
}

type LoginResponse struct {
	Account   AccountView `json:"account"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type AvatarResponse struct {
	URL string `json:"url"`
}
