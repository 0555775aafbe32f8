package store

import (
	"go.uber.org/fx"
)

// Module wires the database connection and the record store.
var Module = fx.Module("draft.store",
	fx.Provide(
		Open,
		New,
	),
)
