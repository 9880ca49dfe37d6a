package components

import (
	"clinicore/internal/infra/db"
	"clinicore/internal/infra/readstore"
	"clinicore/internal/infra/repository"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repository.NewPromotionRepository,
			fx.As(new(commands.PromotionRepository)),
		),
		fx.Annotate(
			repository.NewVoucherRepository,
			fx.As(new(commands.VoucherRepository)),
		),
		fx.Annotate(
			repository.NewClinicianRepository,
			fx.As(new(commands.ClinicianRepository)),
		),
		fx.Annotate(
			repository.NewAppointmentRepository,
			fx.As(new(commands.AppointmentRepository)),
		),
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		repository.NewIdempotencyRepository,
		func(r *repository.IdempotencyRepository) commands.IdempotencyRepository { return r },
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewPromotionReadStore,
			fx.As(new(queries.PromotionReadStore)),
		),
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(queries.AppointmentReadStore)),
		),
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
