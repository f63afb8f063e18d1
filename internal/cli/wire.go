package cli

import (
	"context"

	"github.com/spf13/viper"
	"github.com/xpanvictor/voxrelay/internal/app"
	"github.com/xpanvictor/voxrelay/internal/config"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

type globalFlags struct {
	configPath string
	env        string
	debug      bool
}

// wiring builds settings, logger and the App graph for a command.
type wiring struct {
	flags   *globalFlags
	appOpts []app.Option
}

func (w *wiring) settings() (*config.Settings, error) {
	v := viper.New()
	if w.flags.env != "" {
		v.Set("env", w.flags.env)
	}
	if w.flags.debug {
		v.Set("debug", true)
	}
	return config.LoadFrom(v, w.flags.configPath)
}

func (w *wiring) app(ctx context.Context) (*app.App, error) {
	cfg, err := w.settings()
	if err != nil {
		return nil, err
	}
	logger := Logger.New(cfg.Debug)
	logger.Infof("config loaded (env=%s)", cfg.Env)
	return app.NewApp(ctx, cfg, logger, w.appOpts...)
}
