package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/core-tools/hsu-autorun/pkg/errors"

	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// LoadOptionsFromFile reads recipe options from a YAML or TOML file,
// chosen by extension.
func LoadOptionsFromFile(filename string) (Options, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Options{}, errors.NewFilesystemError("failed to read configuration file", err).WithContext("filename", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return parseYAMLOptions(data, filename)
	case ".toml":
		return parseTOMLOptions(data, filename)
	default:
		return Options{}, errors.NewInvalidConfigurationError(
			fmt.Sprintf("unsupported configuration file extension: %s", filepath.Ext(filename)),
			nil,
		).WithContext("filename", filename).WithContext("supported_extensions", ".yaml, .yml, .toml")
	}
}

func parseYAMLOptions(data []byte, filename string) (Options, error) {
	var options Options
	if err := yaml.Unmarshal(data, &options); err != nil {
		return Options{}, errors.NewInvalidConfigurationError("failed to parse YAML configuration", err).WithContext("filename", filename)
	}
	return options, nil
}

func parseTOMLOptions(data []byte, filename string) (Options, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return Options{}, errors.NewInvalidConfigurationError("failed to parse TOML configuration", err).WithContext("filename", filename)
	}

	// TOML values keep their native type (start_on_boot = true is a bool),
	// so each key is read individually and rendered back to its text form.
	get := func(key string) string {
		value := tree.Get(key)
		if value == nil {
			return ""
		}
		return fmt.Sprint(value)
	}

	return Options{
		Buildout:   BuildoutSection{Directory: get("buildout.directory")},
		Supervisor: SupervisorSection{PidFile: get("supervisor.pidfile")},
		ERPGlobal:  ERPGlobalSection{CurrentInstance: get("erp_global.current_instance")},
		AutoRun: AutoRunSection{
			StartOnBoot: get("auto_run.start_on_boot"),
			Template:    get("auto_run.template"),
		},
	}, nil
}
