package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/core-tools/hsu-autorun/pkg/config"
	"github.com/core-tools/hsu-autorun/pkg/errors"
	"github.com/core-tools/hsu-autorun/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	lines []string
}

func (c *capture) funcs() logging.LogFuncs {
	return logging.LogFuncs{
		LogLevelf: func(level int, format string, args ...interface{}) {
			c.lines = append(c.lines, fmt.Sprintf(format, args...))
		},
	}
}

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("auto-run setup relies on unix permissions and symlinks")
	}
}

func TestRun_ConfigFileWithOverrides(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	configFile := filepath.Join(t.TempDir(), "autorun.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf(`
buildout:
  directory: %s
supervisor:
  pidfile: /run/sup.pid
erp_global:
  current_instance: prod1
auto_run:
  start_on_boot: "off"
`, root)), 0644))

	logs := &capture{}
	parts, err := Run(RunOptions{
		Action:     ActionInstall,
		ConfigFile: configFile,
		Overrides:  config.Options{AutoRun: config.AutoRunSection{StartOnBoot: "yes"}},
		LogFuncs:   logs.funcs(),
		LogLevel:   logging.LogLevelDebug,
	})
	require.NoError(t, err)
	assert.Empty(t, parts)

	target, err := os.Readlink(filepath.Join(root, "auto-run", "autorun.sh"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bin", "autorun.sh"), target)

	var keyed bool
	for _, line := range logs.lines {
		if strings.HasPrefix(line, "instance: prod1, ") {
			keyed = true
		}
	}
	assert.True(t, keyed, "setup logs must be keyed by instance")
}

func TestRun_EnvironmentOnly(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	env := map[string]string{
		config.EnvDirectory:       root,
		config.EnvSupervisorPid:   "/run/sup.pid",
		config.EnvCurrentInstance: "prod1",
		config.EnvStartOnBoot:     "no",
	}

	parts, err := Run(RunOptions{
		Action: ActionUpdate,
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	})
	require.NoError(t, err)
	assert.Empty(t, parts)

	entries, err := os.ReadDir(filepath.Join(root, "auto-run"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.FileExists(t, filepath.Join(root, "bin", "autorun.sh"))
}

func TestRun_UnsupportedAction(t *testing.T) {
	_, err := Run(RunOptions{Action: "uninstall"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfigurationError(err))
}

func TestRun_InvalidConfiguration(t *testing.T) {
	logs := &capture{}
	_, err := Run(RunOptions{
		Action: ActionInstall,
		Overrides: config.Options{
			Buildout: config.BuildoutSection{Directory: t.TempDir()},
			AutoRun:  config.AutoRunSection{StartOnBoot: "maybe"},
		},
		LogFuncs: logs.funcs(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfigurationError(err))
	require.NotEmpty(t, logs.lines)
	assert.Contains(t, logs.lines[len(logs.lines)-1], "Invalid configuration")
}

func TestRun_MissingConfigFile(t *testing.T) {
	_, err := Run(RunOptions{
		Action:     ActionInstall,
		ConfigFile: filepath.Join(t.TempDir(), "absent.toml"),
	})
	assert.True(t, errors.IsFilesystemError(err))
}
