package runner

import (
	"fmt"

	"github.com/core-tools/hsu-autorun/pkg/autorun"
	"github.com/core-tools/hsu-autorun/pkg/config"
	"github.com/core-tools/hsu-autorun/pkg/errors"
	"github.com/core-tools/hsu-autorun/pkg/logging"
)

const (
	ActionInstall = "install"
	ActionUpdate  = "update"
)

// RunOptions describes one invocation. Option sources are layered as
// configuration file, then env file and environment, then Overrides.
type RunOptions struct {
	Action     string
	ConfigFile string
	EnvFile    string
	Lookup     config.LookupFunc
	Overrides  config.Options
	LogFuncs   logging.LogFuncs
	LogLevel   int
}

func Run(opts RunOptions) ([]string, error) {
	runLogger := logging.NewInstanceLogger("", opts.LogLevel, opts.LogFuncs)

	if opts.Action != ActionInstall && opts.Action != ActionUpdate {
		err := errors.NewInvalidConfigurationError(
			fmt.Sprintf("unsupported action: %s", opts.Action),
			nil,
		).WithContext("supported_actions", "install, update")
		runLogger.Errorf("%v", err)
		return nil, err
	}

	options, err := loadOptions(opts, runLogger)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Build(options)
	if err != nil {
		runLogger.Errorf("Invalid configuration: %v", err)
		return nil, err
	}

	logger := logging.NewInstanceLogger(cfg.InstanceIdentifier, opts.LogLevel, opts.LogFuncs)
	logger.Debugf("Configuration: root: %s, pidfile: %s, start on boot: %t, template: %q",
		cfg.InstallationRoot, cfg.SupervisorPidFile, cfg.StartOnBoot, cfg.TemplatePath)

	setup := autorun.NewSetup(cfg, logger)
	if opts.Action == ActionUpdate {
		return setup.Update()
	}
	return setup.Install()
}

func loadOptions(opts RunOptions, logger logging.Logger) (config.Options, error) {
	var options config.Options

	if opts.ConfigFile != "" {
		fileOptions, err := config.LoadOptionsFromFile(opts.ConfigFile)
		if err != nil {
			logger.Errorf("Failed to load configuration file %s: %v", opts.ConfigFile, err)
			return config.Options{}, err
		}
		logger.Infof("Using CONFIGURATION FILE: %s", opts.ConfigFile)
		options.Merge(fileOptions)
	}

	envOptions, err := config.LoadEnvOptions(opts.EnvFile, opts.Lookup)
	if err != nil {
		logger.Errorf("Failed to load environment: %v", err)
		return config.Options{}, err
	}
	options.Merge(envOptions)

	options.Merge(opts.Overrides)
	return options, nil
}
