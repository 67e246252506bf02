package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/internal/domain/entity"
	repo "github.com/oksasatya/user-service/internal/domain/repository"
	"github.com/oksasatya/user-service/internal/otc"
	"github.com/oksasatya/user-service/pkg/helpers"
	"github.com/oksasatya/user-service/pkg/mailer/templates"
	"github.com/oksasatya/user-service/pkg/validation"
)

const defaultOtcTTL = 10 * time.Minute

// Deps wires an AccountService. Blobs and Index are optional.
type Deps struct {
	Repo      repo.AccountRepository
	Hasher    CredentialHasher
	Tokens    TokenIssuer
	Codes     otc.Store
	Mail      EmailSender
	Blobs     BlobUploader
	Index     ProfileIndex
	Validator *validation.Validator
	Logger    logrus.FieldLogger
	Branding  templates.Branding

	OtcTTL        time.Duration
	DefaultRoleID int64
	Now           func() time.Time
	NewCode       func() (string, error)
}

// AccountService runs the account lifecycle: registration, login, the two
// one-time-code workflows and profile maintenance. Every operation returns a
// Result; infrastructure errors are logged and reported as KindInternal.
type AccountService struct {
	repo      repo.AccountRepository
	hasher    CredentialHasher
	tokens    TokenIssuer
	codes     otc.Store
	mail      EmailSender
	blobs     BlobUploader
	index     ProfileIndex
	validator *validation.Validator
	logger    logrus.FieldLogger
	branding  templates.Branding

	otcTTL        time.Duration
	defaultRoleID int64
	now           func() time.Time
	newCode       func() (string, error)

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAccountService(d Deps) *AccountService {
	s := &AccountService{
		repo:          d.Repo,
		hasher:        d.Hasher,
		tokens:        d.Tokens,
		codes:         d.Codes,
		mail:          d.Mail,
		blobs:         d.Blobs,
		index:         d.Index,
		validator:     d.Validator,
		logger:        d.Logger,
		branding:      d.Branding,
		otcTTL:        d.OtcTTL,
		defaultRoleID: d.DefaultRoleID,
		now:           d.Now,
		newCode:       d.NewCode,
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if s.logger == nil {
		s.logger = helpers.NewDiscardLogger()
	}
	if s.otcTTL <= 0 {
		s.otcTTL = defaultOtcTTL
	}
	if s.defaultRoleID == 0 {
		s.defaultRoleID = entity.RoleUserID
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = helpers.GenOTPCode
	}
	return s
}

func normalizeEmail(email string) string {
	return entity.NormalizeEmail(email)
}

// Register validates every field, stores a pending account and emails a
// confirmation code. It never logs the caller in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) Result[AccountView] {
	return record("register", s.register(ctx, in))
}

func (s *AccountService) register(ctx context.Context, in RegisterInput) Result[AccountView] {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	var errs validation.Errors
	s.validator.Field(&errs, "username", "Username", username, validation.UsernameRules...)
	if username != "" {
		taken, err := s.repo.ExistsByUsername(ctx, username, 0)
		if err != nil {
			s.logFailure("register", err, logrus.Fields{"username": username})
			return fail[AccountView](KindInternal, msgRegisterFailed)
		}
		if taken {
			errs.Add("username", msgUsernameTaken)
		}
	}

	s.validator.Field(&errs, "password", "Password", in.Password, validation.PasswordRules("Password")...)

	s.validator.Field(&errs, "email", "Email", email, validation.EmailRules...)
	if email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, email, 0)
		if err != nil {
			s.logFailure("register", err, logrus.Fields{"email": email})
			return fail[AccountView](KindInternal, msgRegisterFailed)
		}
		if taken {
			errs.Add("email", msgEmailTaken)
		}
	}

	s.validator.Field(&errs, "full_name", "FullName", fullName, validation.FullNameRules...)
	s.checkProfileExtras(&errs, in.Bio, in.Birthday, in.GithubLink, in.LinkedInLink)

	if !errs.Empty() {
		return invalid[AccountView](errs)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logFailure("register", err, logrus.Fields{"email": email})
		return fail[AccountView](KindInternal, msgRegisterFailed)
	}

	a := entity.NewAccount(entity.NewAccountParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Bio:          strings.TrimSpace(in.Bio),
		Birthday:     in.Birthday,
		GithubLink:   strings.TrimSpace(in.GithubLink),
		LinkedInLink: strings.TrimSpace(in.LinkedInLink),
		RoleID:       s.defaultRoleID,
	}, s.now().UTC())

	if err := s.repo.Add(ctx, a); err != nil {
		// lost the check-then-insert race; the unique index is authoritative
		if errors.Is(err, repo.ErrConflict) {
			return fail[AccountView](KindConflict, msgAccountConflict)
		}
		s.logFailure("register", err, logrus.Fields{"email": email})
		return fail[AccountView](KindInternal, msgRegisterFailed)
	}

	// the account exists now; a lost code can be re-requested
	if err := s.issueCode(ctx, templates.VerifyEmail, email, a.FullName); err != nil {
		s.logFailure("register", err, logrus.Fields{"account_id": a.ID})
	}

	helpers.LogInfo(s.logger, "account registered", logrus.Fields{"op": "register", "account_id": a.ID})
	return ok[AccountView](nil, msgRegisterOK)
}

// Login verifies credentials and issues a bearer token. Unknown accounts,
// wrong passwords and unconfirmed emails all produce the same failure.
func (s *AccountService) Login(ctx context.Context, in LoginInput) Result[LoginResponse] {
	return record("login", s.login(ctx, in))
}

func (s *AccountService) login(ctx context.Context, in LoginInput) Result[LoginResponse] {
	identifier := strings.TrimSpace(in.UsernameOrEmail)
	if identifier == "" || in.Password == "" {
		return fail[LoginResponse](KindValidation, msgLoginEmpty)
	}
	if strings.Contains(identifier, "@") {
		identifier = normalizeEmail(identifier)
	}

	a, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// keep timing close to the wrong-password path
			s.hasher.Verify(in.Password, s.timingDigest())
			return fail[LoginResponse](KindAuthentication, msgInvalidCredentials)
		}
		s.logFailure("login", err, nil)
		return fail[LoginResponse](KindInternal, msgInternal)
	}

	if !s.hasher.Verify(in.Password, a.PasswordHash) || !a.IsEmailConfirmed || !a.IsActive {
		return fail[LoginResponse](KindAuthentication, msgInvalidCredentials)
	}

	role, err := s.repo.RoleName(ctx, a.RoleID)
	if err != nil {
		s.logFailure("login", err, logrus.Fields{"account_id": a.ID, "role_id": a.RoleID})
		return fail[LoginResponse](KindInternal, msgInternal)
	}

	token, exp, err := s.tokens.Issue(a.ID, a.Username, role)
	if err != nil {
		s.logFailure("login", err, logrus.Fields{"account_id": a.ID})
		return fail[LoginResponse](KindInternal, msgInternal)
	}

	return ok(&LoginResponse{Account: NewAccountView(a), Token: token, ExpiresAt: exp}, msgLoginOK)
}

func (s *AccountService) timingDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash("timing-equalizer-not-a-password")
	})
	return s.dummyDigest
}

func (s *AccountService) checkProfileExtras(errs *validation.Errors, bio string, birthday *time.Time, github, linkedin string) {
	s.validator.Optional(errs, "bio", strings.TrimSpace(bio), validation.BioRules...)
	if birthday != nil && birthday.After(s.now()) {
		errs.Add("birthday", msgBirthdayInFuture)
	}
	s.validator.Optional(errs, "github_link", strings.TrimSpace(github), validation.GithubLinkRules...)
	s.validator.Optional(errs, "linkedin_link", strings.TrimSpace(linkedin), validation.LinkedInLinkRules...)
}

func (s *AccountService) logFailure(op string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["op"] = op
	helpers.LogError(s.logger, "account operation failed", err, fields)
}
