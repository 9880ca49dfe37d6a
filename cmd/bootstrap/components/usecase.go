package components

import (
	"clinicore/internal/pkg/clock"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewPromotionQueries,
		queries.NewAppointmentQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewPromotionCommands,
		commands.NewVoucherCommands,
		commands.NewAppointmentCommands,
	),
)
