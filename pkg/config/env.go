package config

import (
	"os"

	"github.com/core-tools/hsu-autorun/pkg/errors"

	"github.com/joho/godotenv"
)

const (
	EnvDirectory       = "AUTORUN_DIRECTORY"
	EnvSupervisorPid   = "AUTORUN_SUPERVISOR_PIDFILE"
	EnvCurrentInstance = "AUTORUN_CURRENT_INSTANCE"
	EnvStartOnBoot     = "AUTORUN_START_ON_BOOT"
	EnvTemplate        = "AUTORUN_TEMPLATE"
)

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// LoadEnvOptions collects options from an optional dotenv file and the
// process environment. The process environment wins over the file.
func LoadEnvOptions(envFile string, lookup LookupFunc) (Options, error) {
	values := map[string]string{}

	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil {
			if os.IsNotExist(err) {
				return Options{}, errors.NewInvalidConfigurationError("env file does not exist", err).WithContext("env_file", envFile)
			}
			return Options{}, errors.NewInvalidConfigurationError("failed to parse env file", err).WithContext("env_file", envFile)
		}
		values = fileValues
	}

	if lookup != nil {
		for _, key := range []string{EnvDirectory, EnvSupervisorPid, EnvCurrentInstance, EnvStartOnBoot, EnvTemplate} {
			if value, ok := lookup(key); ok {
				values[key] = value
			}
		}
	}

	return Options{
		Buildout:   BuildoutSection{Directory: values[EnvDirectory]},
		Supervisor: SupervisorSection{PidFile: values[EnvSupervisorPid]},
		ERPGlobal:  ERPGlobalSection{CurrentInstance: values[EnvCurrentInstance]},
		AutoRun: AutoRunSection{
			StartOnBoot: values[EnvStartOnBoot],
			Template:    values[EnvTemplate],
		},
	}, nil
}
