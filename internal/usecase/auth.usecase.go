package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/internal/service/audit"
	"github.com/AliFrzngn/zcoil/internal/service/email"
	"github.com/AliFrzngn/zcoil/pkg/jwtutil"
	"github.com/AliFrzngn/zcoil/pkg/utils"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type AuthUsecase struct {
	users  repository.UserStore
	tokens repository.ActionTokenStore
	jwtGen *jwtutil.Generator
	mailer *email.Mailer
	audit  *audit.Recorder
	logger *zap.Logger

	bcryptCost           int
	resetTokenTTL        time.Duration
	verificationTokenTTL time.Duration
}

func NewAuthUsecase(
	users repository.UserStore,
	tokens repository.ActionTokenStore,
	jwtGen *jwtutil.Generator,
	mailer *email.Mailer,
	auditRec *audit.Recorder,
	logger *zap.Logger,
	bcryptCost int,
	resetTokenTTL, verificationTokenTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		users:                users,
		tokens:               tokens,
		jwtGen:               jwtGen,
		mailer:               mailer,
		audit:                auditRec,
		logger:               logger,
		bcryptCost:           bcryptCost,
		resetTokenTTL:        resetTokenTTL,
		verificationTokenTTL: verificationTokenTTL,
	}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Phone    string
	Bio      string
}

type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Register validates and creates a customer account, then issues a
// verification email. New accounts always start as customers; role changes
// are an admin operation.
func (uc *AuthUsecase) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*domain.User, error) {
	emailAddr := utils.NormalizeEmail(in.Email)
	if !utils.ValidateEmail(emailAddr) {
		return nil, xerrors.ErrInvalidEmailFormat
	}
	username := utils.NormalizeUsername(in.Username)
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password, uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Email:        emailAddr,
		Username:     username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Bio:          in.Bio,
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.SendVerificationEmail(ctx, user); err != nil {
		// Account creation stands; the user can request another email.
		uc.logger.Error("failed to send verification email",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       strconv.FormatInt(user.ID, 10),
		Action:       domain.AuditRegister,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(user.ID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return user, nil
}

// Login checks credentials and mints an access token. Unknown email and
// wrong password return the same error so callers cannot probe which
// accounts exist.
func (uc *AuthUsecase) Login(ctx context.Context, emailAddr, password string, meta RequestMeta) (string, *domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, utils.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return "", nil, xerrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", nil, xerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, xerrors.ErrAccountDisabled
	}

	token, err := uc.mintToken(user)
	if err != nil {
		return "", nil, err
	}

	if err := uc.users.UpdateLastLogin(ctx, user.ID); err != nil {
		uc.logger.Warn("failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	} else {
		now := time.Now()
		user.LastLogin = &now
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       strconv.FormatInt(user.ID, 10),
		Action:       domain.AuditLogin,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(user.ID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return token, user, nil
}

// Refresh mints a fresh token for an already-authenticated identity. The
// identity snapshot comes from the middleware, so disabled accounts or
// changed roles are already reflected.
func (uc *AuthUsecase) Refresh(ctx context.Context, identity *domain.ResolvedIdentity) (string, error) {
	token, _, err := uc.jwtGen.Generate(identity.UserID, identity.Email, identity.Role, identity.Permissions)
	return token, err
}

func (uc *AuthUsecase) mintToken(user *domain.User) (string, error) {
	perms, err := domain.DerivePermissions(user.Role)
	if err != nil {
		return "", err
	}
	token, _, err := uc.jwtGen.Generate(strconv.FormatInt(user.ID, 10), user.Email, user.Role, perms)
	return token, err
}

// SendVerificationEmail issues a fresh verification token, replacing any
// outstanding one, and mails the link.
func (uc *AuthUsecase) SendVerificationEmail(ctx context.Context, user *domain.User) error {
	if user.IsVerified {
		return xerrors.ErrAlreadyVerified
	}

	token, err := utils.GenerateActionToken()
	if err != nil {
		return err
	}
	if err := uc.tokens.Replace(ctx, user.ID, domain.ActionVerifyEmail, utils.HashActionToken(token)); err != nil {
		return err
	}
	return uc.mailer.SendVerificationEmail(user.Email, user.FullName, token)
}

// VerifyEmail redeems a verification token. Consumption is atomic, so a
// token can only ever verify once; expired tokens are consumed but rejected.
func (uc *AuthUsecase) VerifyEmail(ctx context.Context, token string, meta RequestMeta) (*domain.User, error) {
	stored, err := uc.tokens.Consume(ctx, domain.ActionVerifyEmail, utils.HashActionToken(token))
	if err != nil {
		return nil, err
	}
	if stored.Expired(uc.verificationTokenTTL, time.Now()) {
		uc.logger.Info("expired verification token presented", zap.Int64("user_id", stored.UserID))
		return nil, xerrors.ErrActionTokenExpired
	}

	user, err := uc.users.MarkEmailVerified(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := uc.mailer.SendWelcomeEmail(user.Email, user.FullName); err != nil {
		uc.logger.Warn("failed to send welcome email", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       strconv.FormatInt(user.ID, 10),
		Action:       domain.AuditEmailVerified,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(user.ID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return user, nil
}

// RequestPasswordReset issues a reset token for the account if it exists.
// The outcome is identical either way so the endpoint cannot be used to
// enumerate registered addresses.
func (uc *AuthUsecase) RequestPasswordReset(ctx context.Context, emailAddr string, meta RequestMeta) error {
	user, err := uc.users.GetByEmail(ctx, utils.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := utils.GenerateActionToken()
	if err != nil {
		return err
	}
	if err := uc.tokens.Replace(ctx, user.ID, domain.ActionPasswordReset, utils.HashActionToken(token)); err != nil {
		return err
	}
	// A mail failure must not surface: the endpoint's outcome has to stay
	// identical to the unknown-address path.
	if err := uc.mailer.SendPasswordResetEmail(user.Email, user.FullName, token); err != nil {
		uc.logger.Error("failed to send password reset email",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       strconv.FormatInt(user.ID, 10),
		Action:       domain.AuditPasswordResetRequest,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(user.ID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return nil
}

// ResetPassword redeems a reset token and installs the new password. The
// policy check runs before consumption so a weak password does not burn the
// token.
func (uc *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string, meta RequestMeta) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	stored, err := uc.tokens.Consume(ctx, domain.ActionPasswordReset, utils.HashActionToken(token))
	if err != nil {
		return err
	}
	if stored.Expired(uc.resetTokenTTL, time.Now()) {
		uc.logger.Info("expired reset token presented", zap.Int64("user_id", stored.UserID))
		return xerrors.ErrActionTokenExpired
	}

	hash, err := utils.HashPassword(newPassword, uc.bcryptCost)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePasswordHash(ctx, stored.UserID, hash); err != nil {
		return err
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       strconv.FormatInt(stored.UserID, 10),
		Action:       domain.AuditPasswordResetComplete,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(stored.UserID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return nil
}
