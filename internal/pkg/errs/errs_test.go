//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"clinicore/internal/infra"
	"clinicore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("claim code expired")
	cause := errs.New("claim payload outside freshness window")

	t.Run("marked error matches the sentinel", func(t *testing.T) {
		err := errs.Mark(cause, sentinel)
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("cause stays reachable through the chain", func(t *testing.T) {
		base := errors.New("no rows")
		err := errs.Mark(errs.Wrap(base, "voucher lookup failed"), sentinel)
		assert.ErrorIs(t, err, base)
	})

	t.Run("message comes from the cause", func(t *testing.T) {
		err := errs.Mark(cause, sentinel)
		assert.Equal(t, cause.Error(), err.Error())
	})

	t.Run("nil cause yields the sentinel itself", func(t *testing.T) {
		err := errs.Mark(nil, sentinel)
		assert.Equal(t, sentinel, err)
	})

	t.Run("repository kind survives marking", func(t *testing.T) {
		repoErr := infra.WrapRepoErr("voucher not found", errors.New("no rows"), infra.KindNotFound)
		err := errs.Mark(repoErr, sentinel)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("marking twice keeps both sentinels visible", func(t *testing.T) {
		other := errs.New("database operation failed")
		err := errs.Mark(errs.Mark(cause, sentinel), other)
		assert.ErrorIs(t, err, sentinel)
		assert.ErrorIs(t, err, other)
	})
}
