package config

import (
	"fmt"
	"path/filepath"

	"github.com/core-tools/hsu-autorun/pkg/errors"
	"github.com/core-tools/hsu-autorun/pkg/layout"
)

// Options holds the raw recipe options as read from a configuration file,
// an env file or the command line. Section names follow the buildout file
// the recipe is configured from.
type Options struct {
	Buildout   BuildoutSection   `yaml:"buildout"`
	Supervisor SupervisorSection `yaml:"supervisor"`
	ERPGlobal  ERPGlobalSection  `yaml:"erp_global"`
	AutoRun    AutoRunSection    `yaml:"auto_run"`
}

type BuildoutSection struct {
	Directory string `yaml:"directory"`
}

type SupervisorSection struct {
	PidFile string `yaml:"pidfile"`
}

type ERPGlobalSection struct {
	CurrentInstance string `yaml:"current_instance"`
}

type AutoRunSection struct {
	StartOnBoot string `yaml:"start_on_boot"`
	Template    string `yaml:"template,omitempty"`
}

// AutoRunConfig is the validated, typed form of Options.
type AutoRunConfig struct {
	InstallationRoot   string
	SupervisorPidFile  string
	InstanceIdentifier string
	StartOnBoot        bool
	// Empty means the template embedded in the binary
	TemplatePath string
}

func (c *AutoRunConfig) Layout() layout.Layout {
	return layout.New(c.InstallationRoot)
}

func (c *AutoRunConfig) AutoRunDirectory() string {
	return c.Layout().AutoRunDirectory()
}

func (c *AutoRunConfig) ScriptOutputPath() string {
	return c.Layout().ScriptOutputPath()
}

func (c *AutoRunConfig) SupervisorDaemonPath() string {
	return c.Layout().SupervisorDaemonPath()
}

// Merge overlays every non-empty value of other onto o
func (o *Options) Merge(other Options) {
	mergeString(&o.Buildout.Directory, other.Buildout.Directory)
	mergeString(&o.Supervisor.PidFile, other.Supervisor.PidFile)
	mergeString(&o.ERPGlobal.CurrentInstance, other.ERPGlobal.CurrentInstance)
	mergeString(&o.AutoRun.StartOnBoot, other.AutoRun.StartOnBoot)
	mergeString(&o.AutoRun.Template, other.AutoRun.Template)
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Build validates options and converts them into an AutoRunConfig.
// All validation failures are reported together.
func Build(options Options) (*AutoRunConfig, error) {
	collection := errors.NewErrorCollection()

	if options.Buildout.Directory == "" {
		collection.Add(errors.NewInvalidConfigurationError("installation root directory is required", nil).
			WithContext("key", "buildout.directory"))
	}
	if options.Supervisor.PidFile == "" {
		collection.Add(errors.NewInvalidConfigurationError("supervisor pidfile is required", nil).
			WithContext("key", "supervisor.pidfile"))
	}
	if err := ValidateInstanceID(options.ERPGlobal.CurrentInstance); err != nil {
		collection.Add(err)
	}

	startOnBoot := false
	if options.AutoRun.StartOnBoot != "" {
		parsed, err := ParseBoolean(options.AutoRun.StartOnBoot)
		if err != nil {
			collection.Add(err)
		}
		startOnBoot = parsed
	}

	var root string
	if options.Buildout.Directory != "" {
		abs, err := filepath.Abs(options.Buildout.Directory)
		if err != nil {
			collection.Add(errors.NewInvalidConfigurationError("cannot resolve installation root", err).
				WithContext("directory", options.Buildout.Directory))
		}
		root = abs
	}

	if err := collection.ToError(); err != nil {
		return nil, err
	}

	return &AutoRunConfig{
		InstallationRoot:   root,
		SupervisorPidFile:  options.Supervisor.PidFile,
		InstanceIdentifier: options.ERPGlobal.CurrentInstance,
		StartOnBoot:        startOnBoot,
		TemplatePath:       options.AutoRun.Template,
	}, nil
}

// ValidateInstanceID validates instance identifier format and constraints
func ValidateInstanceID(id string) error {
	if id == "" {
		return errors.NewInvalidConfigurationError("current instance is required", nil).
			WithContext("key", "erp_global.current_instance")
	}

	if len(id) > 64 {
		return errors.NewInvalidConfigurationError("current instance cannot exceed 64 characters", nil).
			WithContext("instance", id)
	}

	for _, char := range id {
		if !isValidIDChar(char) {
			return errors.NewInvalidConfigurationError(
				fmt.Sprintf("current instance %q contains invalid characters: only letters, numbers, dots, hyphens, and underscores are allowed", id),
				nil,
			).WithContext("instance", id)
		}
	}

	return nil
}

func isValidIDChar(char rune) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') ||
		char == '-' || char == '_' || char == '.'
}
