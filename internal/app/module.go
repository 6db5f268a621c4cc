// Package app composes the client from its providers and lifecycle hooks.
package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/config"
	"github.com/wolfpackhq/wolfpack/internal/invite"
	"github.com/wolfpackhq/wolfpack/internal/lock"
	"github.com/wolfpackhq/wolfpack/internal/logging"
	"github.com/wolfpackhq/wolfpack/internal/platform/auth"
	"github.com/wolfpackhq/wolfpack/internal/platform/blob"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
	"github.com/wolfpackhq/wolfpack/internal/profile"
	"github.com/wolfpackhq/wolfpack/internal/roles"
	"github.com/wolfpackhq/wolfpack/internal/roster"
	"github.com/wolfpackhq/wolfpack/internal/session"
	"github.com/wolfpackhq/wolfpack/internal/store"
	"github.com/wolfpackhq/wolfpack/internal/tui"
	"github.com/wolfpackhq/wolfpack/internal/upload"
)

// Params holds the resolved startup configuration passed to the fx module.
type Params struct {
	Profile string
	Local   bool // in-process backends, no hosted services
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("wolfpack",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideGate,
			provideLock,
			provideStore,
			provideAuthService,
			provideDocClient,
			provideBlobStore,
			provideManager,
			provideDirectory,
			provideUploader,
			provideInviteClient,
			provideRoleResolver,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	return config.LoadOrDefault(profile.ConfigPath())
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideGate(b *bus.Bus) *session.Gate {
	return session.NewGate(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.CacheDBPath(p.Profile)
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
	logger.Info("session cache initialized", zap.String("path", dbPath))
	return db, nil
}

func provideAuthService(p Params, cfg *config.Config, logger *zap.Logger) auth.Service {
	if p.Local {
		logger.Info("using in-process identity service")
		return auth.NewMemory()
	}
	return auth.NewREST(cfg.Auth.BaseURL, logger)
}

// docClientResult carries the optional Mongo handle alongside the interface
// so lifecycle and GridFS wiring can reach it in hosted mode.
type docClientResult struct {
	fx.Out

	Client docstore.Client
	Mongo  *docstore.Mongo
}

func provideDocClient(p Params, cfg *config.Config, logger *zap.Logger) (docClientResult, error) {
	if p.Local {
		logger.Info("using in-process document store")
		return docClientResult{Client: docstore.NewMemory()}, nil
	}
	m, err := docstore.NewMongo(context.Background(), cfg.Database.URI, cfg.Database.Name, logger)
	if err != nil {
		return docClientResult{}, err
	}
	return docClientResult{Client: m, Mongo: m}, nil
}

func provideBlobStore(p Params, cfg *config.Config, m *docstore.Mongo, logger *zap.Logger) (blob.Store, error) {
	if p.Local {
		logger.Info("using in-process blob store")
		return blob.NewMemory(), nil
	}
	return blob.NewGridFS(m.Database(), cfg.Blob.PublicBaseURL)
}

func provideManager(svc auth.Service, docs docstore.Client, db *store.DB, gate *session.Gate, b *bus.Bus, logger *zap.Logger) *session.Manager {
	return session.NewManager(svc, docs, db, gate, b, logger)
}

func provideDirectory(docs docstore.Client, b *bus.Bus, logger *zap.Logger) *roster.Directory {
	return roster.NewDirectory(docs, b, logger)
}

func provideUploader(cfg *config.Config, store blob.Store, logger *zap.Logger) *upload.Uploader {
	return upload.New(store, cfg.Blob.Prefix, cfg.Blob.JPEGQuality, logger)
}

func provideInviteClient(cfg *config.Config, logger *zap.Logger) *invite.Client {
	return invite.New(cfg.Invite.AcceptURL, logger)
}

func provideRoleResolver(docs docstore.Client) *roles.Resolver {
	return roles.NewResolver(docs)
}

func provideApp(cfg *config.Config, manager *session.Manager, gate *session.Gate, directory *roster.Directory, uploader *upload.Uploader, invites *invite.Client, resolver *roles.Resolver, docs docstore.Client, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(tui.Config{
		Manager:     manager,
		Gate:        gate,
		Directory:   directory,
		Uploader:    uploader,
		Invites:     invites,
		Roles:       resolver,
		Docs:        docs,
		Bus:         b,
		Logger:      logger,
		SplashDelay: time.Duration(cfg.UI.SplashSeconds) * time.Second,
	})
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, a *tui.App, manager *session.Manager, directory *roster.Directory, mongo *docstore.Mongo, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Restore the persisted session before any screen draws.
			if err := manager.Start(ctx); err != nil {
				return err
			}

			// Run the TUI in the background; shut the process down when the
			// user quits.
			go func() {
				if err := a.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			a.Stop()
			directory.Stop()
			if mongo != nil {
				if err := mongo.Close(ctx); err != nil {
					logger.Warn("error disconnecting document store", zap.Error(err))
				}
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing session cache", zap.Error(err))
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
