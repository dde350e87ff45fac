package httpapi

import (
	"context"
	"sync/atomic"

	"carsync-engine/internal/config"
	"carsync-engine/internal/domain"
	"carsync-engine/internal/events"
	"carsync-engine/internal/store"
)

type Deps struct {
	DB *store.DB

	Hub *events.Hub

	// Atomic app-config snapshot
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Sync entrypoints (injected for testability)
	TriggerSync func(ctx context.Context) domain.SyncRunResult
	SyncStatus  func(ctx context.Context) (domain.SyncStatus, error)
}
