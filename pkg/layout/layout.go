package layout

import (
	"path/filepath"
)

const (
	AutoRunDirName      = "auto-run"
	AutoRunScriptName   = "autorun.sh"
	TemplateName        = "autorun.sh.in"
	SupervisorDaemonBin = "supervisord"
	BinDirName          = "bin"
)

// Layout derives every generated path from the installation root.
// Nothing is cached, so paths cannot drift from the root.
type Layout struct {
	root string
}

func New(installationRoot string) Layout {
	return Layout{root: filepath.Clean(installationRoot)}
}

func (l Layout) Root() string {
	return l.root
}

// BinDirectory is <root>/bin
func (l Layout) BinDirectory() string {
	return filepath.Join(l.root, BinDirName)
}

// ScriptOutputPath is <root>/bin/autorun.sh
func (l Layout) ScriptOutputPath() string {
	return filepath.Join(l.BinDirectory(), AutoRunScriptName)
}

// AutoRunDirectory is <root>/auto-run, the directory scanned at boot
func (l Layout) AutoRunDirectory() string {
	return filepath.Join(l.root, AutoRunDirName)
}

// AutoRunLinkPath is <root>/auto-run/autorun.sh
func (l Layout) AutoRunLinkPath() string {
	return filepath.Join(l.AutoRunDirectory(), AutoRunScriptName)
}

// SupervisorDaemonPath is <root>/bin/supervisord
func (l Layout) SupervisorDaemonPath() string {
	return filepath.Join(l.BinDirectory(), SupervisorDaemonBin)
}
