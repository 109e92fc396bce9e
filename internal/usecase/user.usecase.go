package usecase

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/internal/service/audit"
	"github.com/AliFrzngn/zcoil/pkg/utils"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type UserUsecase struct {
	users      repository.UserStore
	audit      *audit.Recorder
	logger     *zap.Logger
	bcryptCost int
}

func NewUserUsecase(users repository.UserStore, auditRec *audit.Recorder, logger *zap.Logger, bcryptCost int) *UserUsecase {
	return &UserUsecase{users: users, audit: auditRec, logger: logger, bcryptCost: bcryptCost}
}

type CreateUserInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Phone    string
	Bio      string
	Role     string
}

// Create provisions an account on behalf of an admin. Unlike self-service
// registration the role is caller-chosen (default customer) and no
// verification email is issued.
func (uc *UserUsecase) Create(ctx context.Context, actor *domain.ResolvedIdentity, in CreateUserInput, meta RequestMeta) (*domain.User, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, xerrors.ErrForbidden
	}

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
	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.ValidRole(role) {
		return nil, xerrors.ErrUnknownRole
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
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       actor.UserID,
		Action:       domain.AuditUserCreate,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(user.ID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return user, nil
}

func (uc *UserUsecase) Get(ctx context.Context, id int64) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *UserUsecase) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, int, error) {
	return uc.users.List(ctx, f)
}

// Update applies a partial update on behalf of the actor. Non-admins may
// only update themselves and may never touch role, activation, verification
// or superuser flags; the restricted-field check runs before ownership so a
// privilege escalation attempt is reported as such.
func (uc *UserUsecase) Update(ctx context.Context, actor *domain.ResolvedIdentity, targetID int64, upd domain.UserUpdate, meta RequestMeta) (*domain.User, error) {
	isAdmin := actor.HasRole(domain.RoleAdmin)

	if !isAdmin {
		if upd.TouchesRestrictedFields() {
			return nil, xerrors.ErrRestrictedField
		}
		if !actor.Owns(strconv.FormatInt(targetID, 10)) {
			return nil, xerrors.ErrForbidden
		}
	}

	if upd.Email != nil {
		normalized := utils.NormalizeEmail(*upd.Email)
		if !utils.ValidateEmail(normalized) {
			return nil, xerrors.ErrInvalidEmailFormat
		}
		upd.Email = &normalized
	}
	if upd.Username != nil {
		normalized := utils.NormalizeUsername(*upd.Username)
		if err := utils.ValidateUsername(normalized); err != nil {
			return nil, err
		}
		upd.Username = &normalized
	}
	if upd.Role != nil && !domain.ValidRole(*upd.Role) {
		return nil, xerrors.ErrUnknownRole
	}

	user, err := uc.users.Update(ctx, targetID, upd)
	if err != nil {
		return nil, err
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       actor.UserID,
		Action:       domain.AuditUserUpdate,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(targetID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return user, nil
}

// Delete removes an account. Actors can never delete themselves, admins
// included; deactivation is the path for retiring one's own account.
func (uc *UserUsecase) Delete(ctx context.Context, actor *domain.ResolvedIdentity, targetID int64, meta RequestMeta) error {
	if actor.Owns(strconv.FormatInt(targetID, 10)) {
		return xerrors.ErrSelfDeleteForbidden
	}

	if err := uc.users.Delete(ctx, targetID); err != nil {
		return err
	}

	uc.audit.Record(&domain.AuditLog{
		UserID:       actor.UserID,
		Action:       domain.AuditUserDelete,
		ResourceType: "user",
		ResourceID:   strconv.FormatInt(targetID, 10),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})

	return nil
}
