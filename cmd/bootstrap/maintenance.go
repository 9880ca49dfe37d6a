package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"clinicore/internal/infra/repository"

	"go.uber.org/fx"
)

var MaintenanceModule = fx.Module("maintenance",
	fx.Invoke(startIdempotencyCleanup),
)

const idempotencyCleanupInterval = time.Hour

// startIdempotencyCleanup prunes expired idempotency keys in the background.
func startIdempotencyCleanup(lc fx.Lifecycle, repo *repository.IdempotencyRepository) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				ticker := time.NewTicker(idempotencyCleanupInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						deleted, err := repo.DeleteExpired(ctx)
						if err != nil {
							slog.Warn("idempotency key cleanup failed", "error", err.Error())
							continue
						}
						if deleted > 0 {
							slog.Info("expired idempotency keys deleted", "count", deleted)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
