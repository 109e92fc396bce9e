package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/internal/service/inventory"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

const customerViewTTL = 15 * time.Minute

// CustomerView is the CRM read model: the customer's profile joined with
// the products assigned to them.
type CustomerView struct {
	Customer *domain.User      `json:"customer"`
	Products []*domain.Product `json:"products"`
	CachedAt time.Time         `json:"cached_at"`
}

type CRMUsecase struct {
	users     repository.UserStore
	inventory *inventory.Client
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewCRMUsecase(users repository.UserStore, inv *inventory.Client, rdb *redis.Client, logger *zap.Logger) *CRMUsecase {
	return &CRMUsecase{users: users, inventory: inv, rdb: rdb, logger: logger}
}

func customerViewKey(userID string) string {
	return "crm:customer_view:" + userID
}

// MyView assembles the view for the requesting customer. Profile and
// product fetches run concurrently; the assembled view is cached for a
// short window since the inventory call crosses a service boundary. Cache
// failures degrade to a live fetch.
func (uc *CRMUsecase) MyView(ctx context.Context, actor *domain.ResolvedIdentity, bearerToken string) (*CustomerView, error) {
	key := customerViewKey(actor.UserID)

	if raw, err := uc.rdb.Get(ctx, key).Result(); err == nil {
		view := new(CustomerView)
		if err := json.Unmarshal([]byte(raw), view); err == nil {
			return view, nil
		}
	} else if err != redis.Nil {
		uc.logger.Warn("customer view cache read failed", zap.Error(err))
	}

	userID, err := strconv.ParseInt(actor.UserID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad user id in identity: %w", err)
	}

	view := &CustomerView{CachedAt: time.Now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := uc.users.GetByID(gctx, userID)
		if err != nil {
			return err
		}
		view.Customer = user
		return nil
	})
	g.Go(func() error {
		products, err := uc.inventory.CustomerProducts(gctx, actor.UserID, bearerToken)
		if err != nil {
			return err
		}
		view.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(view); err == nil {
		if err := uc.rdb.Set(ctx, key, raw, customerViewTTL).Err(); err != nil {
			uc.logger.Warn("customer view cache write failed", zap.Error(err))
		}
	}

	return view, nil
}

// MyProducts returns the caller's assigned products.
func (uc *CRMUsecase) MyProducts(ctx context.Context, actor *domain.ResolvedIdentity, bearerToken string) ([]*domain.Product, error) {
	view, err := uc.MyView(ctx, actor, bearerToken)
	if err != nil {
		return nil, err
	}
	return view.Products, nil
}

// MyProduct returns one product from the caller's assignment. Products
// assigned to someone else are indistinguishable from missing ones.
func (uc *CRMUsecase) MyProduct(ctx context.Context, actor *domain.ResolvedIdentity, bearerToken string, productID int64) (*domain.Product, error) {
	view, err := uc.MyView(ctx, actor, bearerToken)
	if err != nil {
		return nil, err
	}
	for _, p := range view.Products {
		if p.ID == productID {
			return p, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

// SearchMyProducts narrows the caller's active products by name substring
// and exact category/brand, all case-insensitive.
func (uc *CRMUsecase) SearchMyProducts(ctx context.Context, actor *domain.ResolvedIdentity, bearerToken, name, category, brand string) ([]*domain.Product, error) {
	view, err := uc.MyView(ctx, actor, bearerToken)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Product, 0, len(view.Products))
	for _, p := range view.Products {
		if !p.IsActive {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if brand != "" && !strings.EqualFold(p.Brand, brand) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CustomerStats summarizes a customer's product assignment.
type CustomerStats struct {
	TotalProducts int     `json:"total_products"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
	Categories    int     `json:"categories"`
}

// MyStats derives the summary from the same fan-out (and cache window) as
// the full view.
func (uc *CRMUsecase) MyStats(ctx context.Context, actor *domain.ResolvedIdentity, bearerToken string) (*CustomerStats, error) {
	view, err := uc.MyView(ctx, actor, bearerToken)
	if err != nil {
		return nil, err
	}

	stats := new(CustomerStats)
	categories := make(map[string]struct{})
	for _, p := range view.Products {
		stats.TotalProducts++
		stats.TotalQuantity += p.Quantity
		stats.TotalValue += p.Price * float64(p.Quantity)
		if p.LowStock() {
			stats.LowStockCount++
		}
		if p.Category != "" {
			categories[strings.ToLower(p.Category)] = struct{}{}
		}
	}
	stats.Categories = len(categories)
	return stats, nil
}

// InvalidateView drops the cached view for a customer, used after product
// assignment changes.
func (uc *CRMUsecase) InvalidateView(ctx context.Context, userID string) {
	if err := uc.rdb.Del(ctx, customerViewKey(userID)).Err(); err != nil {
		uc.logger.Warn("customer view cache invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
