package main

import (
	"fmt"
	"io"
	"time"

	"vmsmenu/pkg/manager"
	"vmsmenu/pkg/settings"
	"vmsmenu/pkg/transport"
)

// appEnv is everything a subcommand needs, resolved from the settings file
// and the persisted state.
type appEnv struct {
	settings   *settings.Settings
	transports transport.Set

	statePath string
	state     *manager.State

	// activity is nil when activity_log is off.
	activity *manager.ActivityLog

	stderr io.Writer
}

func loadEnv(settingsPath string, stderr io.Writer) (*appEnv, error) {
	s, _, err := settings.Load(settingsPath)
	if err != nil {
		return nil, err
	}
	rt := &appEnv{
		settings: s,
		transports: transport.Set{
			SSH:    transport.SSH(s.SSHConfig),
			Telnet: transport.Telnet(s.TelnetConfig),
		},
		stderr: stderr,
	}

	// State only drives defaults; a broken state file is reported and replaced.
	rt.statePath, err = manager.DefaultStatePath()
	if err == nil {
		rt.state, err = manager.LoadState(rt.statePath)
	}
	if err != nil {
		rt.warn("state", err)
	}
	if rt.state == nil {
		rt.state = &manager.State{Version: 1}
	}

	if s.ActivityLogEnabled() {
		rt.activity = &manager.ActivityLog{OnError: func(err error) { rt.warn("activity log", err) }}
	}
	return rt, nil
}

func (rt *appEnv) warn(what string, err error) {
	fmt.Fprintf(rt.stderr, "vmsmenu: %s: %v\n", what, err)
}

// defaultTransport is the settings choice, else the last transport used.
func (rt *appEnv) defaultTransport() string {
	if rt.settings.DefaultTransport != "" {
		return rt.settings.DefaultTransport
	}
	return rt.state.LastTransport
}

func (rt *appEnv) timeout() time.Duration {
	return time.Duration(rt.settings.ConnectTimeoutSeconds) * time.Second
}

func (rt *appEnv) command(t transport.Transport) string {
	if t.Key == transport.KeyTelnet {
		return rt.settings.TelnetCommand
	}
	return rt.settings.SSHCommand
}

func (rt *appEnv) pickTransport(t transport.Transport) {
	if rt.state.SetLastTransport(t.Key) {
		rt.saveState()
	}
}

func (rt *appEnv) addRecent(t transport.Transport, alias string) {
	if rt.state.AddRecent(manager.RecentKey(t.Key, alias)) {
		rt.saveState()
	}
}

func (rt *appEnv) saveState() {
	if rt.statePath == "" {
		return
	}
	if err := manager.SaveState(rt.statePath, rt.state); err != nil {
		rt.warn("state", err)
	}
}
