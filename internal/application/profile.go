package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/internal/domain/entity"
	repo "github.com/oksasatya/user-service/internal/domain/repository"
	"github.com/oksasatya/user-service/pkg/validation"
)

// MaxAvatarBytes caps avatar uploads.
const MaxAvatarBytes = 5 << 20

func (s *AccountService) lookupByID(ctx context.Context, op string, id int64) (*entity.Account, Kind) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, KindNotFound
		}
		s.logFailure(op, err, logrus.Fields{"account_id": id})
		return nil, KindInternal
	}
	return a, KindOK
}

func lookupFailure[T any](kind Kind) Result[T] {
	if kind == KindNotFound {
		return fail[T](KindNotFound, msgAccountNotFound)
	}
	return fail[T](KindInternal, msgInternal)
}

// ChangePassword replaces the password of an authenticated account after
// checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, accountID int64, in ChangePasswordInput) Result[Empty] {
	return record("change_password", s.changePassword(ctx, accountID, in))
}

func (s *AccountService) changePassword(ctx context.Context, accountID int64, in ChangePasswordInput) Result[Empty] {
	const op = "change_password"
	a, kind := s.lookupByID(ctx, op, accountID)
	if kind != KindOK {
		return lookupFailure[Empty](kind)
	}

	var errs validation.Errors
	wrongCurrent := false
	if s.validator.Required(&errs, "current_password", "CurrentPassword", in.CurrentPassword) &&
		!s.hasher.Verify(in.CurrentPassword, a.PasswordHash) {
		wrongCurrent = true
		errs.Add("current_password", msgCurrentPasswordBad)
	}
	s.validator.Field(&errs, "new_password", "NewPassword", in.NewPassword, validation.PasswordRules("NewPassword")...)

	if !errs.Empty() {
		if wrongCurrent && len(errs) == 1 {
			return Result[Empty]{Message: msgCurrentPasswordBad, Errors: errs, Kind: KindAuthentication}
		}
		return invalid[Empty](errs)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[Empty](KindInternal, msgInternal)
	}
	a.SetPassword(hash, s.now().UTC())
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fail[Empty](KindNotFound, msgAccountNotFound)
		}
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[Empty](KindInternal, msgInternal)
	}
	return ok[Empty](nil, msgPasswordChanged)
}

// UpdateAvatar uploads the file and stores its URL on the account.
func (s *AccountService) UpdateAvatar(ctx context.Context, accountID int64, f AvatarFile) Result[AvatarResponse] {
	return record("update_avatar", s.updateAvatar(ctx, accountID, f))
}

func (s *AccountService) updateAvatar(ctx context.Context, accountID int64, f AvatarFile) Result[AvatarResponse] {
	const op = "update_avatar"

	var errs validation.Errors
	switch {
	case f.Body == nil || strings.TrimSpace(f.FileName) == "":
		errs.Add("avatar", msgAvatarRequired)
	default:
		if !strings.HasPrefix(f.ContentType, "image/") {
			errs.Add("avatar", "Avatar must be an image")
		}
		if f.Size > MaxAvatarBytes {
			errs.Add("avatar", "Avatar must be at most 5 MB")
		}
	}
	if !errs.Empty() {
		return invalid[AvatarResponse](errs)
	}

	a, kind := s.lookupByID(ctx, op, accountID)
	if kind != KindOK {
		return lookupFailure[AvatarResponse](kind)
	}

	if s.blobs == nil {
		s.logFailure(op, errors.New("blob storage not configured"), logrus.Fields{"account_id": a.ID})
		return fail[AvatarResponse](KindInternal, msgInternal)
	}
	url, err := s.blobs.Upload(ctx, f.Body, f.FileName, f.ContentType)
	if err != nil {
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[AvatarResponse](KindInternal, msgInternal)
	}

	a.Avatar = url
	if err := s.repo.Update(ctx, a); err != nil {
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[AvatarResponse](KindInternal, msgInternal)
	}
	s.indexProfile(ctx, a)

	return ok(&AvatarResponse{URL: url}, msgAvatarUpdated)
}

// GetProfile returns the public view of the account with this username.
func (s *AccountService) GetProfile(ctx context.Context, username string) Result[AccountView] {
	return record("get_profile", s.getProfile(ctx, username))
}

func (s *AccountService) getProfile(ctx context.Context, username string) Result[AccountView] {
	username = strings.TrimSpace(username)
	if username == "" {
		return fail[AccountView](KindValidation, msgUsernameRequired)
	}
	a, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fail[AccountView](KindNotFound, msgAccountNotFound)
		}
		s.logFailure("get_profile", err, logrus.Fields{"username": username})
		return fail[AccountView](KindInternal, msgInternal)
	}
	view := NewAccountView(a)
	return ok(&view, msgProfileOK)
}

// UpdateProfile rewrites the editable profile fields. Username uniqueness
// ignores the account being edited.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID int64, in UpdateProfileInput) Result[AccountView] {
	return record("update_profile", s.updateProfile(ctx, accountID, in))
}

func (s *AccountService) updateProfile(ctx context.Context, accountID int64, in UpdateProfileInput) Result[AccountView] {
	const op = "update_profile"
	a, kind := s.lookupByID(ctx, op, accountID)
	if kind != KindOK {
		return lookupFailure[AccountView](kind)
	}

	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)

	var errs validation.Errors
	s.validator.Field(&errs, "username", "Username", username, validation.UsernameRules...)
	if username != "" && username != a.Username {
		taken, err := s.repo.ExistsByUsername(ctx, username, a.ID)
		if err != nil {
			s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
			return fail[AccountView](KindInternal, msgInternal)
		}
		if taken {
			errs.Add("username", msgUsernameTaken)
		}
	}
	s.validator.Field(&errs, "full_name", "FullName", fullName, validation.FullNameRules...)
	s.checkProfileExtras(&errs, in.Bio, in.Birthday, in.GithubLink, in.LinkedInLink)

	if !errs.Empty() {
		return invalid[AccountView](errs)
	}

	a.ApplyProfile(entity.ProfileChanges{
		Username:     username,
		FullName:     fullName,
		Bio:          strings.TrimSpace(in.Bio),
		Birthday:     in.Birthday,
		GithubLink:   strings.TrimSpace(in.GithubLink),
		LinkedInLink: strings.TrimSpace(in.LinkedInLink),
	})
	if err := s.repo.Update(ctx, a); err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			var conflict validation.Errors
			conflict.Add("username", msgUsernameTaken)
			return Result[AccountView]{Message: msgUsernameTaken, Errors: conflict, Kind: KindConflict}
		case errors.Is(err, repo.ErrNotFound):
			return fail[AccountView](KindNotFound, msgAccountNotFound)
		}
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[AccountView](KindInternal, msgInternal)
	}
	s.indexProfile(ctx, a)

	view := NewAccountView(a)
	return ok(&view, msgProfileUpdated)
}

// ProfileDocument is what the search index stores per confirmed account.
type ProfileDocument struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	GithubLink   string    `json:"github_link,omitempty"`
	LinkedInLink string    `json:"linkedin_link,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProfileDocument(a *entity.Account) ProfileDocument {
	return ProfileDocument{
		ID:           a.ID,
		Username:     a.Username,
		FullName:     a.FullName,
		Bio:          a.Bio,
		Avatar:       a.Avatar,
		GithubLink:   a.GithubLink,
		LinkedInLink: a.LinkedInLink,
		CreatedAt:    a.CreatedAt,
	}
}

// indexProfile refreshes the search document. Pending accounts stay out of the index.
func (s *AccountService) indexProfile(ctx context.Context, a *entity.Account) {
	if s.index == nil || !a.IsEmailConfirmed {
		return
	}
	if err := s.index.Put(ctx, strconv.FormatInt(a.ID, 10), newProfileDocument(a)); err != nil {
		s.logger.WithError(err).WithField("account_id", a.ID).Warn("profile index failed")
	}
}

// SearchProfiles looks up confirmed profiles by username, name or bio.
func (s *AccountService) SearchProfiles(ctx context.Context, q string, size int) Result[[]ProfileDocument] {
	return record("search_profiles", s.searchProfiles(ctx, q, size))
}

func (s *AccountService) searchProfiles(ctx context.Context, q string, size int) Result[[]ProfileDocument] {
	q = strings.TrimSpace(q)
	if q == "" {
		return fail[[]ProfileDocument](KindValidation, msgSearchQueryRequired)
	}
	out := []ProfileDocument{}
	if s.index == nil {
		return ok(&out, msgSearchOK)
	}
	if size <= 0 || size > 50 {
		size = 10
	}

	hits, err := s.index.Search(ctx, q, []string{"username^2", "full_name", "bio"}, size)
	if err != nil {
		s.logFailure("search_profiles", err, logrus.Fields{"q": q})
		return fail[[]ProfileDocument](KindInternal, msgInternal)
	}
	for _, h := range hits {
		var d ProfileDocument
		if err := json.Unmarshal(h, &d); err != nil {
			s.logger.WithError(err).Warn("skipping malformed profile document")
			continue
		}
		out = append(out, d)
	}
	return ok(&out, msgSearchOK)
}
