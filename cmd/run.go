package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/tramind/internal/app"
	"github.com/abhisek/tramind/internal/config"
	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/platform/logger"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/stimulus"
	"github.com/abhisek/tramind/internal/store"
)

// runtime is what a command needs once configuration is loaded.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	progress *progression.Service
	curves   *stimulus.Curves

	closers []io.Closer
}

// openRuntime loads configuration, sets up logging, opens the store and
// loads the profile. Interactive commands log to the log file; the rest
// log to stderr.
func openRuntime(cmd *cobra.Command, interactive bool) (*runtime, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if !interactive {
		cfg.LogFile = ""
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}
	l, closer, err := logger.Setup(*cfg)
	if err != nil {
		return nil, err
	}
	rt.logger = l
	rt.closers = append(rt.closers, closer)

	rt.curves = stimulus.Default()
	if cfg.CurvesFile != "" {
		if rt.curves, err = stimulus.Load(cfg.CurvesFile); err != nil {
			rt.Close()
			return nil, fmt.Errorf("load difficulty curves: %w", err)
		}
		l.Info("difficulty curves loaded", "path", cfg.CurvesFile)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st)

	repo := store.NewProfileRepo(st, store.WithLogger(l))
	rt.progress, err = progression.NewService(cmd.Context(), repo, l,
		progression.WithHistory(st.History()))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load profile: %w", err)
	}
	l.Debug("runtime ready", "db", cfg.DBPath, "log_level", cfg.LogLevel)
	return rt, nil
}

// Close releases everything in reverse order of acquisition.
func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// runApp launches the TUI, opening id directly when it is set.
func runApp(cmd *cobra.Command, id drill.ID) error {
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(app.Options{
		Env: screen.Env{
			Progress: rt.progress,
			History:  rt.store.History(),
			Curves:   rt.curves,
			Logger:   rt.logger,
		},
		Drill: id,
	})
}
