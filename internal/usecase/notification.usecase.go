package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type NotificationUsecase struct {
	notifications repository.NotificationStore
}

func NewNotificationUsecase(notifications repository.NotificationStore) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications}
}

var notificationTypes = map[string]struct{}{
	domain.NotificationInfo:    {},
	domain.NotificationSuccess: {},
	domain.NotificationWarning: {},
	domain.NotificationError:   {},
}

func (uc *NotificationUsecase) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n.UserID == 0 || strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Message) == "" {
		return nil, xerrors.ErrInvalidRequest
	}
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}
	if _, ok := notificationTypes[n.Type]; !ok {
		return nil, xerrors.ErrInvalidRequest
	}
	return uc.notifications.Create(ctx, n)
}

// Get returns a notification if the actor owns it or is an admin.
func (uc *NotificationUsecase) Get(ctx context.Context, actor *domain.ResolvedIdentity, id int64) (*domain.Notification, error) {
	n, err := uc.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(actor, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListMine lists the actor's own notifications.
func (uc *NotificationUsecase) ListMine(ctx context.Context, actor *domain.ResolvedIdentity, unreadOnly bool, page, size int) ([]*domain.Notification, int, error) {
	userID, err := strconv.ParseInt(actor.UserID, 10, 64)
	if err != nil {
		return nil, 0, xerrors.ErrInvalidRequest
	}
	return uc.notifications.List(ctx, domain.NotificationFilter{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Page:       page,
		Size:       size,
	})
}

func (uc *NotificationUsecase) MarkRead(ctx context.Context, actor *domain.ResolvedIdentity, id int64) (*domain.Notification, error) {
	n, err := uc.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(actor, n); err != nil {
		return nil, err
	}
	return uc.notifications.MarkRead(ctx, id)
}

func (uc *NotificationUsecase) MarkAllRead(ctx context.Context, actor *domain.ResolvedIdentity) (int64, error) {
	userID, err := strconv.ParseInt(actor.UserID, 10, 64)
	if err != nil {
		return 0, xerrors.ErrInvalidRequest
	}
	return uc.notifications.MarkAllRead(ctx, userID)
}

func (uc *NotificationUsecase) Delete(ctx context.Context, actor *domain.ResolvedIdentity, id int64) error {
	n, err := uc.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.authorize(actor, n); err != nil {
		return err
	}
	return uc.notifications.Delete(ctx, id)
}

func (uc *NotificationUsecase) UnreadCount(ctx context.Context, actor *domain.ResolvedIdentity) (int, error) {
	userID, err := strconv.ParseInt(actor.UserID, 10, 64)
	if err != nil {
		return 0, xerrors.ErrInvalidRequest
	}
	return uc.notifications.UnreadCount(ctx, userID)
}

func (uc *NotificationUsecase) authorize(actor *domain.ResolvedIdentity, n *domain.Notification) error {
	if actor.HasRole(domain.RoleAdmin) || actor.Owns(strconv.FormatInt(n.UserID, 10)) {
		return nil
	}
	return xerrors.ErrForbidden
}
