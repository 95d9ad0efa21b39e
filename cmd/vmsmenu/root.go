package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vmsmenu/pkg/editor"
	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/manager"
	"vmsmenu/pkg/menu"
	"vmsmenu/pkg/session"
	"vmsmenu/pkg/transport"
)

func newRootCmd() *cobra.Command {
	var settingsPath string

	load := func(cmd *cobra.Command) (*appEnv, error) {
		return loadEnv(settingsPath, cmd.ErrOrStderr())
	}

	root := &cobra.Command{
		Use:   "vmsmenu",
		Short: "Pick and connect to ssh/telnet hosts from a menu",
		Long: `vmsmenu lists the hosts of ~/.ssh/config or ~/.telnet/config as a
numbered menu. Aliases of the form group.NAME are shown under a group menu.

Examples:
  vmsmenu                      # connect menu
  vmsmenu addhost              # add, edit or delete hosts
  vmsmenu hosts --transport telnet
  vmsmenu log prod.DB1 -n 50`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}
			return runConnectMenu(rt)
		},
	}
	root.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file (default ~/.config/vmsmenu/settings.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Open the connect menu",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt, err := load(cmd)
				if err != nil {
					return err
				}
				return runConnectMenu(rt)
			},
		},
		&cobra.Command{
			Use:     "addhost",
			Aliases: []string{"edit"},
			Short:   "Add, edit, list or delete hosts",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt, err := load(cmd)
				if err != nil {
					return err
				}
				return runEditor(rt)
			},
		},
		newHostsCmd(load),
		newGroupsCmd(load),
		newRecentCmd(load),
		newLogCmd(load),
	)
	return root
}

type loader func(cmd *cobra.Command) (*appEnv, error)

func terminalConsole(rt *appEnv) *menu.Console {
	th := menu.LoadTheme(rt.settings.Theme, os.Stdout)
	c := menu.NewTerminalConsole(os.Stdin, os.Stdout, th)
	c.SetTitle(session.IdleTitle)
	return c
}

func runConnectMenu(rt *appEnv) error {
	c := terminalConsole(rt)
	t, ok, err := rt.transports.Pick(c, rt.defaultTransport())
	if err != nil || !ok {
		return err
	}
	rt.pickTransport(t)

	store, err := t.Store(rt.settings.BackupEnabled())
	if err != nil {
		return err
	}
	conn := &session.Connector{
		Transport:   t,
		Store:       store,
		Console:     c,
		Timeout:     rt.timeout(),
		Command:     rt.command(t),
		OnConnected: func(alias string) { rt.addRecent(t, alias) },
	}
	if rt.activity != nil {
		conn.Recorder = rt.activity
	}

	m := &menu.Machine{
		Title:    "VMS " + strings.ToUpper(t.Label),
		Subtitle: "Select a host to connect to or a group to open its menu:",
		Source:   store,
		Location: store.Path,
		OnHost:   conn.Connect,
		Console:  c,
	}
	out, err := m.Run()
	if err != nil {
		return err
	}
	if out.Reason == menu.NoHosts {
		c.Println(c.Theme.ErrorText(out.Message))
	}
	return nil
}

func runEditor(rt *appEnv) error {
	app := &editor.App{
		Transports:       rt.transports,
		DefaultTransport: rt.defaultTransport(),
		Console:          terminalConsole(rt),
		Backup:           rt.settings.BackupEnabled(),
		OnPick:           rt.pickTransport,
	}
	if rt.activity != nil {
		app.Recorder = rt.activity
	}
	return app.Run()
}

func newHostsCmd(load loader) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Print host aliases, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := rt.transports.Lookup(key)
			if err != nil {
				return err
			}
			for _, alias := range hostconfig.New(t.ConfigFile).LoadAliases() {
				fmt.Fprintln(cmd.OutOrStdout(), alias)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "transport", "t", transport.KeySSH, "ssh or telnet")
	return cmd
}

func newGroupsCmd(load loader) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print group names and their members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := rt.transports.Lookup(key)
			if err != nil {
				return err
			}
			cat := hostconfig.CategorizeHosts(hostconfig.New(t.ConfigFile).LoadAliases())
			for _, g := range cat.GroupNames {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", g, strings.Join(cat.GroupMap[g], " "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "transport", "t", transport.KeySSH, "ssh or telnet")
	return cmd
}

func newRecentCmd(load loader) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print recently connected hosts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}
			for i, key := range rt.state.Recents {
				if n > 0 && i >= n {
					break
				}
				if tr, alias, ok := manager.SplitRecentKey(key); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tr, alias)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 0, "print at most n entries (0 = all)")
	return cmd
}

func newLogCmd(load loader) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "log <alias>",
		Short: "Print the activity log of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := load(cmd); err != nil {
				return err
			}
			// Reading works even when recording is switched off.
			lines, err := (&manager.ActivityLog{}).Tail(args[0], n)
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of records")
	return cmd
}
