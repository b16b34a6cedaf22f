package autorun

import (
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-autorun/pkg/config"
	"github.com/core-tools/hsu-autorun/pkg/errors"
	"github.com/core-tools/hsu-autorun/pkg/layout"
	"github.com/core-tools/hsu-autorun/pkg/logging"
)

const ownerExecute os.FileMode = 0100

// Setup renders the launcher script of one instance and links it into the
// auto-run directory scanned at boot. Install and Update converge the
// filesystem to the same state and may be repeated.
type Setup struct {
	config *config.AutoRunConfig
	layout layout.Layout
	logger logging.Logger
}

func NewSetup(cfg *config.AutoRunConfig, logger logging.Logger) *Setup {
	return &Setup{
		config: cfg,
		layout: cfg.Layout(),
		logger: logger,
	}
}

// Install returns the paths of any further parts to install, which is always none.
func (s *Setup) Install() ([]string, error) {
	s.logger.Infof("Installing auto-run, root: %s", s.layout.Root())
	return s.converge()
}

// Update is identical to Install.
func (s *Setup) Update() ([]string, error) {
	s.logger.Infof("Updating auto-run, root: %s", s.layout.Root())
	return s.converge()
}

// The directory is recreated after the script exists so the link
// created last always points at a current target.
func (s *Setup) converge() ([]string, error) {
	if err := s.RenderLauncherScript(); err != nil {
		return nil, err
	}
	if err := s.EnsureAutoRunDirectory(); err != nil {
		return nil, err
	}
	if err := s.LinkIfEnabled(); err != nil {
		return nil, err
	}
	return []string{}, nil
}

// RenderLauncherScript writes the substituted template to bin/autorun.sh and
// adds the owner execute bit to the resulting file.
func (s *Setup) RenderLauncherScript() error {
	text, err := s.loadTemplate()
	if err != nil {
		return err
	}

	script, err := Substitute(text, map[string]string{
		PlaceholderSupervisorDaemonPath: s.layout.SupervisorDaemonPath(),
		PlaceholderSupervisorPid:        s.config.SupervisorPidFile,
		PlaceholderCurrentInstance:      s.config.InstanceIdentifier,
	})
	if err != nil {
		s.logger.Errorf("Failed to render launcher script, template: %s, error: %v", s.templateName(), err)
		return err
	}

	scriptPath := s.layout.ScriptOutputPath()
	if err := os.MkdirAll(filepath.Dir(scriptPath), 0755); err != nil {
		s.logger.Errorf("Failed to create bin directory, path: %s, error: %v", filepath.Dir(scriptPath), err)
		return errors.NewFilesystemError("failed to create bin directory", err).WithContext("directory", filepath.Dir(scriptPath))
	}

	// O_TRUNC drops leftovers of a longer previous script
	if err := os.WriteFile(scriptPath, []byte(script), 0666); err != nil {
		s.logger.Errorf("Failed to write launcher script, path: %s, error: %v", scriptPath, err)
		return errors.NewFilesystemError("failed to write launcher script", err).WithContext("path", scriptPath)
	}

	info, err := os.Stat(scriptPath)
	if err != nil {
		s.logger.Errorf("Failed to stat launcher script, path: %s, error: %v", scriptPath, err)
		return errors.NewFilesystemError("failed to stat launcher script", err).WithContext("path", scriptPath)
	}
	if err := os.Chmod(scriptPath, info.Mode()|ownerExecute); err != nil {
		s.logger.Errorf("Failed to make launcher script executable, path: %s, error: %v", scriptPath, err)
		return errors.NewFilesystemError("failed to make launcher script executable", err).WithContext("path", scriptPath)
	}

	s.logger.Infof("Launcher script rendered, path: %s", scriptPath)
	return nil
}

// EnsureAutoRunDirectory leaves an empty auto-run directory behind. A
// non-directory at that path is reported and never removed.
func (s *Setup) EnsureAutoRunDirectory() error {
	dir := s.layout.AutoRunDirectory()

	info, err := os.Lstat(dir)
	switch {
	case err == nil && info.IsDir():
		s.logger.Debugf("Removing existing auto-run directory, path: %s", dir)
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Errorf("Unable to remove %s folder: %v", dir, err)
			return errors.NewFilesystemError("failed to remove auto-run directory", err).WithContext("directory", dir)
		}
	case err == nil:
		s.logger.Errorf("%s auto-run is not a directory and can not be removed", dir)
		return errors.NewConflictingPathError("auto-run path is not a directory and can not be removed", nil).
			WithContext("path", dir).WithContext("mode", info.Mode().String())
	case !os.IsNotExist(err):
		s.logger.Errorf("Unable to inspect %s: %v", dir, err)
		return errors.NewFilesystemError("failed to inspect auto-run directory", err).WithContext("directory", dir)
	}

	if err := os.Mkdir(dir, 0755); err != nil {
		s.logger.Errorf("Unable to create %s folder: %v", dir, err)
		return errors.NewFilesystemError("failed to create auto-run directory", err).WithContext("directory", dir)
	}

	s.logger.Debugf("Auto-run directory ready, path: %s", dir)
	return nil
}

// LinkIfEnabled links auto-run/autorun.sh to the launcher script when the
// instance starts on boot.
func (s *Setup) LinkIfEnabled() error {
	if !s.config.StartOnBoot {
		s.logger.Infof("Start on boot disabled, no auto-run link created")
		return nil
	}

	target := s.layout.ScriptOutputPath()
	link := s.layout.AutoRunLinkPath()
	if err := os.Symlink(target, link); err != nil {
		s.logger.Errorf("Failed to create auto-run link, link: %s, target: %s, error: %v", link, target, err)
		return errors.NewFilesystemError("failed to create auto-run link", err).
			WithContext("link", link).WithContext("target", target)
	}

	s.logger.Infof("Auto-run link created, link: %s, target: %s", link, target)
	return nil
}

func (s *Setup) loadTemplate() (string, error) {
	if s.config.TemplatePath == "" {
		return DefaultTemplate(), nil
	}

	data, err := os.ReadFile(s.config.TemplatePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Errorf("Template not found, path: %s", s.config.TemplatePath)
			return "", errors.NewMissingTemplateError("template file not found", err).WithContext("path", s.config.TemplatePath)
		}
		s.logger.Errorf("Failed to read template, path: %s, error: %v", s.config.TemplatePath, err)
		return "", errors.NewFilesystemError("failed to read template file", err).WithContext("path", s.config.TemplatePath)
	}
	return string(data), nil
}

func (s *Setup) templateName() string {
	if s.config.TemplatePath == "" {
		return "embedded " + layout.TemplateName
	}
	return s.config.TemplatePath
}
