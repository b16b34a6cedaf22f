package main

import (
	"fmt"
	"os"

	sprintfLogging "github.com/core-tools/hsu-core/pkg/logging/sprintf"

	"github.com/core-tools/hsu-autorun/pkg/config"
	"github.com/core-tools/hsu-autorun/pkg/logging"
	"github.com/core-tools/hsu-autorun/pkg/runner"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	Config      string `long:"config" description:"path to a YAML or TOML configuration file"`
	EnvFile     string `long:"env-file" description:"path to a dotenv file with AUTORUN_* values"`
	Directory   string `long:"directory" description:"installation root directory"`
	PidFile     string `long:"pidfile" description:"supervisor pid file"`
	Instance    string `long:"instance" description:"current instance identifier"`
	StartOnBoot string `long:"start-on-boot" description:"link the launcher into auto-run (1/0, true/false, yes/no, ok/ko, on/off)"`
	Template    string `long:"template" description:"launcher template, defaults to the embedded autorun.sh.in"`
	LogFormat   string `long:"log-format" choice:"text" choice:"json" default:"text" description:"log output format"`
	LogLevel    string `long:"log-level" default:"info" description:"debug, info, warn or error"`

	Args struct {
		Action string `positional-arg-name:"install|update" description:"setup action"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	var opts flagOptions
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		return 1
	}

	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	var logFuncs logging.LogFuncs
	switch opts.LogFormat {
	case "json":
		backend, err := logging.NewZapBackend(logging.ZapConfig{Level: opts.LogLevel, Format: "json"})
		if err != nil {
			fmt.Printf("Failed to create zap logger: %v\n", err)
			return 1
		}
		defer backend.Sync()
		logFuncs = backend.LogFuncs()
	default:
		logger := sprintfLogging.NewStdSprintfLogger()
		logFuncs = logging.LogFuncs{
			Debugf: logger.Debugf,
			Infof:  logger.Infof,
			Warnf:  logger.Warnf,
			Errorf: logger.Errorf,
		}
	}

	_, err = runner.Run(runner.RunOptions{
		Action:     opts.Args.Action,
		ConfigFile: opts.Config,
		EnvFile:    opts.EnvFile,
		Lookup:     os.LookupEnv,
		Overrides: config.Options{
			Buildout:   config.BuildoutSection{Directory: opts.Directory},
			Supervisor: config.SupervisorSection{PidFile: opts.PidFile},
			ERPGlobal:  config.ERPGlobalSection{CurrentInstance: opts.Instance},
			AutoRun: config.AutoRunSection{
				StartOnBoot: opts.StartOnBoot,
				Template:    opts.Template,
			},
		},
		LogFuncs: logFuncs,
		LogLevel: level,
	})
	if err != nil {
		return 1
	}
	return 0
}
