package cli

import (
	"context"
	"fmt"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/store"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// openService opens the configured store and builds a tracker.Service over it.
// The returned cleanup closes the store and must be called once.
func openService(ctx context.Context, opts ...tracker.Option) (*tracker.Service, func(), error) {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.EnsureStoreDir(); err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Warn().Ctx(ctx).Err(closeErr).Msg("closing store")
		}
	}

	svc, err := tracker.New(st, tracker.SettingsFromConfig(cfg), opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	logger.Debug().
		Ctx(ctx).
		Str("store_driver", cfg.Store.Driver).
		Msg("tracker service ready")

	return svc, cleanup, nil
}
