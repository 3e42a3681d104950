package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BearBump/ParcelAssist/internal/cache"
	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/BearBump/ParcelAssist/internal/validate"
	"github.com/pkg/errors"
)

// Repository — read-only источник заказов (память, postgres, что угодно ещё).
type Repository interface {
	FindByID(ctx context.Context, orderID string) (*models.Order, bool, error)
}

type Service struct {
	repo     Repository
	cache    cache.BytesCache
	cacheTTL time.Duration
}

func New(repo Repository, c cache.BytesCache, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, cacheTTL: cacheTTL}
}

// Verify cross-checks the submitted triple against the stored order.
// Checks run existence, then email, then ZIP; only the first failure is reported as *Failure.
func (s *Service) Verify(ctx context.Context, in models.VerificationInput) (*models.Order, error) {
	id := validate.NormalizeOrderID(in.OrderID)

	o, ok, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &Failure{Kind: KindNotFound, OrderID: id}
	}
	if !strings.EqualFold(o.Email, strings.TrimSpace(in.Email)) {
		return nil, &Failure{Kind: KindEmailMismatch, OrderID: id}
	}
	if o.Zip != strings.TrimSpace(in.Zip) {
		return nil, &Failure{Kind: KindZipMismatch, OrderID: id}
	}
	return o, nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Order, bool, error) {
	useCache := s.cache != nil && s.cacheTTL > 0

	if useCache {
		// Кэш — "лучшее усилие": ошибка или битые данные считаются промахом.
		b, ok, err := s.cache.Get(ctx, orderKey(id))
		if err == nil && ok {
			var o models.Order
			if json.Unmarshal(b, &o) == nil && o.ID != "" {
				return &o, true, nil
			}
		}
	}

	o, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, errors.Wrap(err, "find order")
	}
	if ok && useCache {
		b, _ := json.Marshal(o)
		_ = s.cache.Set(ctx, orderKey(id), b, s.cacheTTL)
	}
	return o, ok, nil
}

func orderKey(id string) string {
	return fmt.Sprintf("order:%s:record", id)
}
