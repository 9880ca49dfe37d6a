package queries

import (
	"context"

	"clinicore/internal/infra"
	"clinicore/internal/pkg/errs"
)

var ErrUserNotFound = errs.New("user not found")

type UserReadStore interface {
	// FindByEmail also returns the stored password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
	FindByID(ctx context.Context, id int64) (*AuthorizedUserView, error)
}

type UserQueries interface {
	GetAuthorizedUser(ctx context.Context, id int64) (*AuthorizedUserView, error)
}

type userQueriesImpl struct {
	store UserReadStore
}

func NewUserQueries(store UserReadStore) UserQueries {
	return &userQueriesImpl{store: store}
}

func (q *userQueriesImpl) GetAuthorizedUser(ctx context.Context, id int64) (*AuthorizedUserView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return view, nil
}
