package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/internal/domain/entity"
	repo "github.com/oksasatya/user-service/internal/domain/repository"
	"github.com/oksasatya/user-service/pkg/mailer/templates"
	"github.com/oksasatya/user-service/pkg/validation"
)

// issueCode stores a fresh code for email, replacing any live one, and emails it.
// Only storage failures are returned; email delivery problems are logged.
func (s *AccountService) issueCode(ctx context.Context, purpose, email, name string) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	if err := s.codes.Set(ctx, email, code, s.otcTTL); err != nil {
		return err
	}
	CodesIssued.WithLabelValues(purpose).Inc()
	s.sendCode(ctx, purpose, email, name, code)
	return nil
}

func (s *AccountService) sendCode(ctx context.Context, purpose, email, name, code string) {
	data := templates.NewCodeData(s.branding, email, code,
		templates.WithName(name),
		templates.WithExpiresIn(s.otcTTL),
		templates.WithExpiresAt(s.now().Add(s.otcTTL)),
	)
	subject, text, html, err := templates.Render(purpose, data)
	if err == nil {
		err = s.mail.Send(ctx, email, subject, text, html)
	}
	if err != nil {
		EmailFailures.Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{"email": email, "purpose": purpose}).Warn("code email not sent")
	}
}

// lookupByEmail resolves email to an account. A NotFound result is returned for
// unknown emails and an Internal one for storage failures.
func (s *AccountService) lookupByEmail(ctx context.Context, op, email string) (*entity.Account, Kind) {
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, KindNotFound
		}
		s.logFailure(op, err, logrus.Fields{"email": email})
		return nil, KindInternal
	}
	return a, KindOK
}

func emailRequired[T any](email string) (Result[T], bool) {
	if email != "" {
		return Result[T]{}, false
	}
	var errs validation.Errors
	errs.Add("email", "Email is required")
	return invalid[T](errs), true
}

// ForgotPassword emails a password reset code. Unknown emails are reported.
func (s *AccountService) ForgotPassword(ctx context.Context, in EmailInput) Result[Empty] {
	return record("forgot_password", s.sendCodeFor(ctx, "forgot_password", templates.ForgotPassword, in, false))
}

// SendConfirmationOtc re-sends the email confirmation code.
func (s *AccountService) SendConfirmationOtc(ctx context.Context, in EmailInput) Result[Empty] {
	return record("send_confirmation_otc", s.sendCodeFor(ctx, "send_confirmation_otc", templates.VerifyEmail, in, true))
}

func (s *AccountService) sendCodeFor(ctx context.Context, op, purpose string, in EmailInput, pendingOnly bool) Result[Empty] {
	email := normalizeEmail(in.Email)
	if r, bad := emailRequired[Empty](email); bad {
		return r
	}

	a, kind := s.lookupByEmail(ctx, op, email)
	switch kind {
	case KindNotFound:
		return fail[Empty](KindNotFound, msgEmailNotFound)
	case KindInternal:
		return fail[Empty](KindInternal, msgInternal)
	}
	if pendingOnly && a.IsEmailConfirmed {
		return fail[Empty](KindConflict, msgAlreadyConfirmed)
	}

	if err := s.issueCode(ctx, purpose, email, a.FullName); err != nil {
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[Empty](KindInternal, msgInternal)
	}
	return ok[Empty](nil, msgOtcSent)
}

// VerifyOtcAndResetPassword checks the reset code and sets a new password.
// All field problems are reported together. The code is consumed on success.
func (s *AccountService) VerifyOtcAndResetPassword(ctx context.Context, in ResetPasswordInput) Result[Empty] {
	return record("reset_password", s.resetPassword(ctx, in))
}

func (s *AccountService) resetPassword(ctx context.Context, in ResetPasswordInput) Result[Empty] {
	const op = "reset_password"
	email := normalizeEmail(in.Email)
	code := strings.TrimSpace(in.Otc)

	var errs validation.Errors
	var a *entity.Account
	if s.validator.Required(&errs, "email", "Email", email) {
		var kind Kind
		a, kind = s.lookupByEmail(ctx, op, email)
		switch kind {
		case KindNotFound:
			errs.Add("email", msgEmailNotFound)
		case KindInternal:
			return fail[Empty](KindInternal, msgInternal)
		}
	}

	switch {
	case code == "":
		errs.Add("otc", msgOtcRequired)
	case !s.validator.Check(&errs, "otc", code, validation.OtcRules...):
	case email == "":
		errs.Add("otc", msgOtcInvalid)
	default:
		stored, found, err := s.codes.Get(ctx, email)
		if err != nil {
			s.logFailure(op, err, logrus.Fields{"email": email})
			return fail[Empty](KindInternal, msgInternal)
		}
		if !found || stored != code {
			errs.Add("otc", msgOtcInvalid)
		}
	}

	s.validator.Field(&errs, "new_password", "NewPassword", in.NewPassword, validation.PasswordRules("NewPassword")...)

	if !errs.Empty() {
		return codeFailure[Empty](errs)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[Empty](KindInternal, msgInternal)
	}

	if r, done := s.consume(ctx, op, email, code); done {
		return r
	}

	a.SetPassword(hash, s.now().UTC())
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fail[Empty](KindNotFound, msgEmailNotFound)
		}
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[Empty](KindInternal, msgInternal)
	}

	s.logger.WithFields(logrus.Fields{"op": op, "account_id": a.ID}).Info("password reset")
	return ok[Empty](nil, msgPasswordReset)
}

// ConfirmEmail marks a pending account as confirmed once the code matches.
// Confirmed accounts are rejected whatever code is sent.
func (s *AccountService) ConfirmEmail(ctx context.Context, in ConfirmEmailInput) Result[Empty] {
	return record("confirm_email", s.confirmEmail(ctx, in))
}

func (s *AccountService) confirmEmail(ctx context.Context, in ConfirmEmailInput) Result[Empty] {
	const op = "confirm_email"
	email := normalizeEmail(in.Email)
	if r, bad := emailRequired[Empty](email); bad {
		return r
	}

	a, kind := s.lookupByEmail(ctx, op, email)
	switch kind {
	case KindNotFound:
		return fail[Empty](KindNotFound, msgEmailNotFound)
	case KindInternal:
		return fail[Empty](KindInternal, msgInternal)
	}
	if a.IsEmailConfirmed {
		return fail[Empty](KindConflict, msgAlreadyConfirmed)
	}

	code := strings.TrimSpace(in.Otc)
	var errs validation.Errors
	if code == "" {
		errs.Add("otc", msgOtcRequired)
		return Result[Empty]{Message: msgOtcRequired, Errors: errs, Kind: KindValidation}
	}
	if !s.validator.Check(&errs, "otc", code, validation.OtcRules...) {
		return invalid[Empty](errs)
	}

	if r, done := s.consume(ctx, op, email, code); done {
		return r
	}

	a.ConfirmEmail()
	if err := s.repo.Update(ctx, a); err != nil {
		s.logFailure(op, err, logrus.Fields{"account_id": a.ID})
		return fail[Empty](KindInternal, msgConfirmFailed)
	}
	s.indexProfile(ctx, a)

	s.logger.WithFields(logrus.Fields{"op": op, "account_id": a.ID}).Info("email confirmed")
	return ok[Empty](nil, msgEmailConfirmed)
}

// consume burns the code before the account is written so that two
// concurrent requests cannot both use it.
func (s *AccountService) consume(ctx context.Context, op, email, code string) (Result[Empty], bool) {
	consumed, err := s.codes.Consume(ctx, email, code)
	if err != nil {
		s.logFailure(op, err, logrus.Fields{"email": email})
		return fail[Empty](KindInternal, msgInternal), true
	}
	if !consumed {
		var errs validation.Errors
		errs.Add("otc", msgOtcInvalid)
		return Result[Empty]{Message: msgOtcInvalid, Errors: errs, Kind: KindInvalidCode}, true
	}
	return Result[Empty]{}, false
}

// codeFailure reports a bad code as KindInvalidCode when nothing else is wrong.
func codeFailure[T any](errs validation.Errors) Result[T] {
	if len(errs) == 1 && errs[0].Field == "otc" && errs[0].Message == msgOtcInvalid {
		return Result[T]{Message: msgOtcInvalid, Errors: errs, Kind: KindInvalidCode}
	}
	return invalid[T](errs)
}
