package cli

import (
	"github.com/spf13/cobra"

	"github.com/rocketship-ai/scriptrunner/internal/catalog"
	"github.com/rocketship-ai/scriptrunner/internal/config"
	"github.com/rocketship-ai/scriptrunner/internal/runner"
)

// app bundles the components a subcommand works with.
type app struct {
	cfg       config.Config
	catalog   *catalog.Catalog
	validator *runner.Validator
	engine    *runner.Engine
}

// newApp loads the configuration, applies the persistent flag overrides and
// wires the catalog, validator and engine.
func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.Changed("scripts-dir") {
		cfg.ScriptsDir, _ = flags.GetString("scripts-dir")
	}
	if flags.Changed("language") {
		cfg.Language, _ = flags.GetString("language")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// log_level from the config file or SCRIPTRUNNER_LOG; --debug wins.
	level := cfg.LogLevel
	if debug, _ := flags.GetBool("debug"); debug {
		level = "DEBUG"
	}
	InitLogging(cmd.ErrOrStderr(), level)

	lang, err := runner.LookupLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = Logger

	cat := catalog.New(cfg.ScriptsDir, lang.Extension)
	Logger.Debug("configuration loaded", "scripts_dir", cfg.ScriptsDir, "language", lang.Name, "timeout", cfg.Timeout)

	return &app{
		cfg:       cfg,
		catalog:   cat,
		validator: runner.NewValidator(cat, lang),
		engine:    runner.NewEngine(cat, lang, engineCfg),
	}, nil
}
