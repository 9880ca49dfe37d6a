package bootstrap

import (
	"clinicore/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	QRModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	MaintenanceModule,
)
