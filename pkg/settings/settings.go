// Package settings loads the optional vmsmenu YAML settings file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vmsmenu/pkg/manager"
)

// DefaultConnectTimeoutSeconds bounds the TCP pre-flight and ssh's
// ConnectTimeout when the settings file does not set one.
const DefaultConnectTimeoutSeconds = 10

// Settings is the YAML settings file.
//
// Example YAML:
//
//	ssh_config: ~/.ssh/config
//	telnet_config: ~/.telnet/config
//	connect_timeout_seconds: 10
//	ssh_command: ssh
//	telnet_command: telnet
//	theme: auto
//	default_transport: ssh
//	backup: true
//	activity_log: true
type Settings struct {
	SSHConfig    string `yaml:"ssh_config,omitempty"`
	TelnetConfig string `yaml:"telnet_config,omitempty"`

	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds,omitempty"`

	// SSHCommand and TelnetCommand name the client executables. When empty,
	// $MSYS2_USR_BIN/<name>.exe is preferred if present, then <name> on PATH.
	SSHCommand    string `yaml:"ssh_command,omitempty"`
	TelnetCommand string `yaml:"telnet_command,omitempty"`

	// Theme is auto | classic | none.
	Theme string `yaml:"theme,omitempty"`

	// DefaultTransport preselects ssh or telnet in the picker. When empty the
	// last transport used is offered.
	DefaultTransport string `yaml:"default_transport,omitempty"`

	// Backup writes <config>.bak before rewriting a host config file.
	Backup *bool `yaml:"backup,omitempty"`

	// ActivityLog records saves, deletes and connections per host per day.
	ActivityLog *bool `yaml:"activity_log,omitempty"`
}

const (
	envSettings      = "VMSMENU_SETTINGS"
	settingsFilename = "settings.yaml"
)

// Load discovers and parses the settings file. A missing file is not an
// error unless it was named explicitly; defaults are applied either way.
// Returns the settings and the path used ("" when none was found).
func Load(explicitPath string) (*Settings, string, error) {
	if p := strings.TrimSpace(explicitPath); p != "" {
		p = manager.ExpandPath(p)
		s, err := loadFile(p)
		if err != nil {
			return nil, p, err
		}
		return s, p, nil
	}

	for _, p := range PathCandidates("") {
		p = manager.ExpandPath(p)
		if p == "" {
			continue
		}
		s, err := loadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, p, err
		}
		return s, p, nil
	}

	s := &Settings{}
	if err := s.ApplyDefaults(); err != nil {
		return nil, "", err
	}
	return s, "", nil
}

func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	if err := s.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &s, nil
}

// PathCandidates returns possible settings paths in priority order:
// explicit, $VMSMENU_SETTINGS, $XDG_CONFIG_HOME/vmsmenu/settings.yaml,
// ~/.config/vmsmenu/settings.yaml.
func PathCandidates(explicitPath string) []string {
	var out []string
	if explicitPath != "" {
		out = append(out, explicitPath)
	}
	if env := os.Getenv(envSettings); env != "" {
		out = append(out, env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, manager.AppDirName, settingsFilename))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		out = append(out, filepath.Join(home, ".config", manager.AppDirName, settingsFilename))
	}
	return out
}

// Validate checks field values. Error messages name the offending field.
func (s *Settings) Validate() error {
	if s.ConnectTimeoutSeconds < 0 {
		return fmt.Errorf("connect_timeout_seconds: must be >= 0, got %d", s.ConnectTimeoutSeconds)
	}
	switch strings.ToLower(strings.TrimSpace(s.Theme)) {
	case "", "auto", "classic", "none", "off", "disabled":
	default:
		return fmt.Errorf("theme: invalid value %q (expected: auto|classic|none)", s.Theme)
	}
	switch strings.ToLower(strings.TrimSpace(s.DefaultTransport)) {
	case "", "ssh", "telnet":
	default:
		return fmt.Errorf("default_transport: invalid value %q (expected: ssh|telnet)", s.DefaultTransport)
	}
	for _, f := range []struct{ name, value string }{
		{"ssh_command", s.SSHCommand},
		{"telnet_command", s.TelnetCommand},
	} {
		if f.value != "" && strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s: must not be blank", f.name)
		}
	}
	return nil
}

// ApplyDefaults fills unset fields and expands paths.
func (s *Settings) ApplyDefaults() error {
	if strings.TrimSpace(s.SSHConfig) == "" || strings.TrimSpace(s.TelnetConfig) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		if strings.TrimSpace(s.SSHConfig) == "" {
			s.SSHConfig = filepath.Join(home, ".ssh", "config")
		}
		if strings.TrimSpace(s.TelnetConfig) == "" {
			s.TelnetConfig = filepath.Join(home, ".telnet", "config")
		}
	}
	s.SSHConfig = manager.ExpandPath(strings.TrimSpace(s.SSHConfig))
	s.TelnetConfig = manager.ExpandPath(strings.TrimSpace(s.TelnetConfig))
	if s.ConnectTimeoutSeconds == 0 {
		s.ConnectTimeoutSeconds = DefaultConnectTimeoutSeconds
	}
	s.DefaultTransport = strings.ToLower(strings.TrimSpace(s.DefaultTransport))
	return nil
}

func (s *Settings) BackupEnabled() bool      { return s.Backup == nil || *s.Backup }
func (s *Settings) ActivityLogEnabled() bool { return s.ActivityLog == nil || *s.ActivityLog }
