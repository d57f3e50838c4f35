package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snc-project/snc/internal/cache"
	"github.com/snc-project/snc/internal/compiler"
	"github.com/snc-project/snc/internal/config"
	"github.com/snc-project/snc/internal/oracle"
	"github.com/snc-project/snc/internal/store"
	"github.com/snc-project/snc/internal/validate"
)

// app is everything a command needs, wired once per invocation. The
// oracle and checker arrive as explicit dependencies of the pipeline;
// there is no ambient client state anywhere.
type app struct {
	cfg      *config.Config
	store    *store.Store
	orch     *compiler.Orchestrator
	updater  *compiler.Updater
	registry *validate.Registry
	repairer *compiler.Repairer
}

func openApp(opts *RootOptions) (*app, error) {
	var cfg *config.Config
	var err error
	if opts.Config != "" {
		cfg, err = config.Load(opts.Config)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	dbPath := cfg.Database.Path
	if opts.DB != "" {
		dbPath = opts.DB
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}

	orc, err := newOracle(cfg.Oracle)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "configuring oracle", err)
	}

	var registry *validate.Registry
	if cfg.Validators.Registry != "" {
		registry, err = validate.LoadRegistry(cfg.Validators.Registry, st)
		if err != nil {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "loading validator registry", err)
		}
	} else {
		registry = validate.DefaultRegistry(st)
	}

	c := cache.New(st)
	orch := compiler.NewOrchestrator(st, c, orc, compiler.Options{
		Language:    cfg.Compile.Language,
		Framework:   cfg.Compile.Framework,
		MaxParallel: cfg.Compile.MaxParallel,
	})

	return &app{
		cfg:      cfg,
		store:    st,
		orch:     orch,
		updater:  compiler.NewUpdater(st, orch),
		registry: registry,
		repairer: compiler.NewRepairer(st, registry, orc),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// newOracle builds the configured oracle backend, wrapped in the bounded
// retry policy.
func newOracle(cfg config.Oracle) (oracle.Oracle, error) {
	var inner oracle.Oracle
	var err error
	switch cfg.Provider {
	case "openai":
		inner, err = oracle.NewOpenAI(cfg.APIKey(), cfg.BaseURL, cfg.Model)
	case "anthropic":
		inner, err = oracle.NewAnthropic(cfg.APIKey(), cfg.BaseURL, cfg.Model)
	case "mock", "":
		inner = &oracle.Mock{}
	default:
		err = fmt.Errorf("unsupported oracle provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return oracle.WithRetry(inner, cfg.Attempts, time.Duration(cfg.BackoffSeconds)*time.Second), nil
}

// formatter builds the per-command output formatter from the root options.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
