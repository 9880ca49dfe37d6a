package bootstrap

import (
	"clinicore/internal/pkg/config"
	"clinicore/internal/pkg/qrsign"

	"go.uber.org/fx"
)

var QRModule = fx.Module("qr",
	fx.Provide(
		NewQRSigner,
	),
)

func NewQRSigner(cfg config.Config) *qrsign.Signer {
	return qrsign.NewSigner(cfg.QR.Secret)
}
