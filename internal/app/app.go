package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xpanvictor/voxrelay/internal/config"
	"github.com/xpanvictor/voxrelay/internal/database"
	"github.com/xpanvictor/voxrelay/internal/domains/cache"
	"github.com/xpanvictor/voxrelay/internal/domains/pipeline"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	cacherepo "github.com/xpanvictor/voxrelay/internal/repository/cache"
	sessionrepo "github.com/xpanvictor/voxrelay/internal/repository/session"
	userrepo "github.com/xpanvictor/voxrelay/internal/repository/user"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/assistant"
	"github.com/xpanvictor/voxrelay/pkg/io/stt"
	"github.com/xpanvictor/voxrelay/pkg/io/tts"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client

	SessionStore session.Store
	Cache        cache.ResponseCache
	UserRepo     user.UserRepository

	Sessions     session.SessionService
	Users        user.UserService
	Orchestrator *pipeline.Orchestrator

	recognizer stt.Recognizer
	model      assistant.Assistant
	synth      tts.Synthesizer
	closers    []func() error
}

type Option func(*App)

// WithDB reuses an open connection instead of dialing one.
func WithDB(db *gorm.DB) Option { return func(a *App) { a.DB = db } }

func WithRedis(rc *redis.Client) Option { return func(a *App) { a.RC = rc } }

// WithComponents swaps the external speech and model backends.
func WithComponents(rec stt.Recognizer, model assistant.Assistant, synth tts.Synthesizer) Option {
	return func(a *App) {
		a.recognizer, a.model, a.synth = rec, model, synth
	}
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, opts ...Option) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.setupConnections(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.setupStores(); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.setupServices(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) setupConnections(ctx context.Context) error {
	if a.Config.UsesDB() && a.DB == nil {
		db, err := database.InitDB(a.Config.DB, a.Config.Debug)
		if err != nil {
			return err
		}
		a.DB = db
		a.closers = append(a.closers, func() error { return database.CloseDB(db) })
	}
	if a.Config.UsesRedis() && a.RC == nil {
		rc, err := database.NewRedis(ctx, a.Config.Redis)
		if err != nil {
			return err
		}
		a.RC = rc
		a.closers = append(a.closers, rc.Close)
	}
	return nil
}

func (a *App) setupStores() error {
	st := a.Config.Storage

	switch st.SessionBackend {
	case config.BackendMemory:
		a.SessionStore = sessionrepo.NewMemoryStore()
	case config.BackendRedis:
		a.SessionStore = sessionrepo.NewRedisStore(a.RC, sessionrepo.WithRedisTTL(st.SessionTTL))
	case config.BackendGorm:
		a.SessionStore = sessionrepo.NewGormSessionRepo(a.DB)
	default:
		return fmt.Errorf("%w: session %q", config.ErrInvalidBackend, st.SessionBackend)
	}

	switch st.CacheBackend {
	case config.BackendMemory:
		a.Cache = cacherepo.NewMemoryCache()
	case config.BackendRedis:
		a.Cache = cacherepo.NewRedisCache(a.RC, cacherepo.WithRedisTTL(st.CacheTTL))
	case config.BackendGorm:
		a.Cache = cacherepo.NewGormCacheRepo(a.DB)
	default:
		return fmt.Errorf("%w: cache %q", config.ErrInvalidBackend, st.CacheBackend)
	}

	switch st.ProfileBackend {
	case config.BackendMemory:
		a.UserRepo = userrepo.NewMemoryUserRepo()
	case config.BackendGorm:
		a.UserRepo = userrepo.NewGormUserRepo(a.DB)
	default:
		return fmt.Errorf("%w: profile %q", config.ErrInvalidBackend, st.ProfileBackend)
	}

	a.Logger.Infof("stores: session=%s cache=%s profile=%s", st.SessionBackend, st.CacheBackend, st.ProfileBackend)
	return nil
}

func (a *App) setupServices(ctx context.Context) error {
	a.Sessions = session.NewService(a.SessionStore, a.Cache, a.Logger)
	a.Users = user.NewUserService(a.UserRepo, a.Logger)

	if err := a.setupComponents(ctx); err != nil {
		return err
	}

	p := a.Config.Pipeline
	a.Orchestrator = pipeline.New(pipeline.Deps{
		Recognizer:  a.recognizer,
		Model:       a.model,
		Synthesizer: a.synth,
		Sessions:    a.Sessions,
		Cache:       a.Cache,
		Profiles:    a.Users,
	}, pipeline.Options{
		Deadline:         p.Deadline,
		ModelTimeout:     p.ModelTimeout,
		FallbackTimeout:  p.FallbackTimeout,
		Language:         p.Language,
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		HistoryWindow:    p.HistoryWindow,
		CacheKeyMaxRunes: p.CacheKeyMaxRunes,
		FallbackPhrase:   p.FallbackPhrase,
	}, a.Logger)
	return nil
}

func (a *App) setupComponents(ctx context.Context) error {
	var err error
	if a.model == nil {
		var closeModel func() error
		a.model, closeModel, err = NewAssistant(ctx, a.Config.Assistant, a.Logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, closeModel)
	}
	if a.recognizer == nil {
		if a.recognizer, err = NewRecognizer(a.Config.Voice, a.Config.Assistant, a.Logger); err != nil {
			return err
		}
	}
	if a.synth == nil {
		if a.synth, err = NewSynthesizer(a.Config.Voice, a.Config.Assistant); err != nil {
			return err
		}
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
