package draft

import (
	"context"

	"github.com/invoiceforge/invoiceforge/internal/clock"
	"github.com/invoiceforge/invoiceforge/internal/draft/service"
	"github.com/invoiceforge/invoiceforge/internal/draft/store"
	"go.uber.org/fx"
)

// Module wires the store and the draft state manager, loading the
// persisted state once at startup.
var Module = fx.Module("draft",
	store.Module,
	fx.Provide(
		clock.System,
		service.New,
	),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, svc *service.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			svc.Load(ctx)
			return nil
		},
	})
}
