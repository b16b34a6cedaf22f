package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InstallFromFlags(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("auto-run setup relies on unix permissions and symlinks")
	}
	root := t.TempDir()

	code := run([]string{
		"--directory", root,
		"--pidfile", "/run/sup.pid",
		"--instance", "prod1",
		"--start-on-boot", "on",
		"--log-format", "json",
		"--log-level", "warn",
		"install",
	})
	require.Equal(t, 0, code)

	target, err := os.Readlink(filepath.Join(root, "auto-run", "autorun.sh"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bin", "autorun.sh"), target)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"missing action", []string{"--instance", "prod1"}},
		{"unknown log format", []string{"--log-format", "xml", "install"}},
		{"unknown log level", []string{"--log-level", "loud", "install"}},
		{"unknown action", []string{"uninstall"}},
		{"incomplete configuration", []string{"--instance", "prod1", "update"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1, run(tt.argv))
		})
	}
}
