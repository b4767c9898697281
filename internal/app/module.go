package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
	"github.com/fernlabs/fern/internal/config"
	"github.com/fernlabs/fern/internal/lock"
	"github.com/fernlabs/fern/internal/logging"
	"github.com/fernlabs/fern/internal/profile"
	"github.com/fernlabs/fern/internal/realtime"
	"github.com/fernlabs/fern/internal/state"
	"github.com/fernlabs/fern/internal/store"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
}

// Module composes the client core: config, logging, profile lock,
// durable store, HTTP adapter, state store, operations, and the
// realtime bridge lifecycle.
func Module(p Params) fx.Option {
	return fx.Module("fern",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideState,
			provideClient,
			provideOps,
			provideRealtime,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		// A missing or unreadable config file is not fatal: defaults
		// and FERN_API_URL still apply.
		return &config.Config{}
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.DBPath(p.ProfileName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideState(b *bus.Bus) *state.Store {
	return state.New(b)
}

func provideClient(cfg *config.Config, s *state.Store, logger *zap.Logger) *api.Client {
	url := config.ResolveAPIURL(cfg)
	logger.Info("api endpoint resolved", zap.String("url", url))
	return api.New(url, s)
}

func provideOps(s *state.Store, c *api.Client) *state.Ops {
	return state.NewOps(s, c)
}

func provideRealtime(cfg *config.Config, s *state.Store, logger *zap.Logger) *realtime.Manager {
	return realtime.NewManager(config.WSURL(config.ResolveAPIURL(cfg))+"/ws", s, logger)
}

func registerLifecycle(lc fx.Lifecycle, db *store.DB, s *state.Store, ops *state.Ops, mgr *realtime.Manager, lk *lock.Lock, b *bus.Bus, logger *zap.Logger) {
	watchCtx, cancelWatch := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			installID, err := ensureInstallID(db)
			if err != nil {
				return err
			}
			logger.Info("client starting", zap.String("install_id", installID))

			// Persist session transitions before rehydrating, so the
			// restore announcement is also written back (a no-op
			// rewrite of the same row).
			startSessionPersistence(watchCtx, db, s, logger)
			mgr.Watch(watchCtx)

			rehydrate(db, s, logger)

			// The stored user snapshot may be stale; refresh it in the
			// background once authenticated.
			if s.Session().IsAuthenticated {
				go func() {
					res := ops.FetchProfile(context.Background())
					if !res.OK {
						logger.Warn("profile refresh failed", zap.String("error", res.Err))
					}
				}()
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelWatch()
			mgr.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}

// rehydrate loads the persisted session, if any, into the auth slice.
func rehydrate(db *store.DB, s *state.Store, logger *zap.Logger) {
	persisted, err := db.LoadSession()
	if err != nil {
		logger.Warn("session load failed", zap.Error(err))
		return
	}
	if persisted == nil {
		logger.Info("no persisted session")
		return
	}
	s.RestoreSession(persisted.Token, persisted.UserJSON)
	logger.Info("session restored")
}

// startSessionPersistence mirrors auth transitions into the profile
// database so the next start can rehydrate.
func startSessionPersistence(ctx context.Context, db *store.DB, s *state.Store, logger *zap.Logger) {
	ch, unsub := s.Bus().Subscribe("auth.", 16)
	go func() {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				switch evt.Kind {
				case bus.KindLoggedIn:
					started, ok := evt.Payload.(bus.SessionStarted)
					if !ok {
						continue
					}
					if err := db.SaveSession(started.Token, started.UserJSON); err != nil {
						logger.Warn("session save failed", zap.Error(err))
					}
				case bus.KindLoggedOut:
					if err := db.ClearSession(); err != nil {
						logger.Warn("session clear failed", zap.Error(err))
					}
				}
			}
		}
	}()
}

// ensureInstallID returns the stable per-profile identifier, minting
// one on first start. It distinguishes this installation in server
// logs without carrying any account data.
func ensureInstallID(db *store.DB) (string, error) {
	id, err := db.GetKV("install_id")
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.New().String()
	if err := db.SetKV("install_id", id); err != nil {
		return "", err
	}
	return id, nil
}
