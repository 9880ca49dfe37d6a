package queries

import (
	"context"

	"clinicore/internal/infra"
	"clinicore/internal/pkg/errs"
)

var ErrPromotionNotFound = errs.New("promotion not found")

type PromotionReadStore interface {
	FindActive(ctx context.Context) ([]*PromotionView, error)
	FindByID(ctx context.Context, id int64) (*PromotionView, error)
	FindVouchersByUser(ctx context.Context, userID int64) ([]*VoucherView, error)
}

type PromotionQueries interface {
	ListActive(ctx context.Context) ([]*PromotionView, error)
	GetByID(ctx context.Context, id int64) (*PromotionView, error)
	ListVouchersByUser(ctx context.Context, userID int64) ([]*VoucherView, error)
}

type promotionQueriesImpl struct {
	store PromotionReadStore
}

func NewPromotionQueries(store PromotionReadStore) PromotionQueries {
	return &promotionQueriesImpl{store: store}
}

func (q *promotionQueriesImpl) ListActive(ctx context.Context) ([]*PromotionView, error) {
	return q.store.FindActive(ctx)
}

func (q *promotionQueriesImpl) GetByID(ctx context.Context, id int64) (*PromotionView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *promotionQueriesImpl) ListVouchersByUser(ctx context.Context, userID int64) ([]*VoucherView, error) {
	return q.store.FindVouchersByUser(ctx, userID)
}
