package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"hostsmod/internal/config"
	"hostsmod/internal/edit"
	"hostsmod/internal/guard"
	"hostsmod/internal/hostsfile"
	"hostsmod/pkg/models"
	"hostsmod/pkg/utils"
)

var (
	// Global flags
	dryRun     bool
	verbose    bool
	configFile string
	hostsFile  string

	// Root flags
	force        bool
	sampleConfig bool
)

// Replaced in tests
var (
	output  io.Writer = os.Stdout
	geteuid           = unix.Geteuid
	getuid            = unix.Getuid
)

var errSetuidOverride = errors.New("--config and --hosts-file are not allowed when running setuid")

var rootCmd = &cobra.Command{
	Use:   "hostsmod [flags] -- ACTIONS...",
	Short: "Modify the system wide hosts file",
	Example: `  hostsmod -- 127.0.0.2=myproject.test
  hostsmod -- 192.0.2.10+=api.test ::1+=api.test
  hostsmod -- -myproject.test`,
	Version:       fmt.Sprintf("%s (built %s)", sha1ver, buildTime),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the new hosts file without writing it")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultFile, "Configuration file (YAML or INI)")
	rootCmd.PersistentFlags().StringVar(&hostsFile, "hosts-file", "", "Hosts file to modify (default "+config.DefaultHostsFile+")")

	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "Rewrite the hosts file even if nothing changed")
	rootCmd.Flags().BoolVar(&sampleConfig, "sample-config", false, "Print a sample configuration and exit")

	hostname, _ := os.Hostname()
	rootCmd.Long = longHelp(hostname)
}

func longHelp(hostname string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `hostsmod modifies the hosts file %s to simulate arbitrary DNS A and AAAA
records. It reads its configuration from %s and is intended to be
run by unprivileged users with the help of setuid.

Changes are written to a file next to the hosts file and moved into place
as the last step. On any error the original hosts file stays untouched.

Actions:
  -HOST         remove HOST from all active entries
  ADDR+=HOST    add a mapping for HOST, keeping other addresses
  ADDR=HOST     make ADDR the only address of HOST

Only hostnames whitelisted in the configuration can be modified. These
hostnames are never modified:
`, config.DefaultHostsFile, config.DefaultFile)

	for _, name := range guard.Resolve(hostname).Hostnames() {
		if name == hostname {
			fmt.Fprintf(&b, "  - %s <- current hostname\n", name)
			continue
		}
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	b.WriteString(`
The only exception is setting enable_dangerous_operations to true in the
configuration. Then even these hostnames can be modified.`)
	return b.String()
}

func execute() {
	utils.CheckFatal(rootCmd.Execute(), "error")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if sampleConfig {
		data, err := config.Sample()
		if err != nil {
			return err
		}
		_, err = output.Write(data)
		return err
	}
	if len(args) == 0 && !force {
		return cmd.Help()
	}

	manager, actions, err := prepare(cmd, args, force)
	if err != nil {
		return err
	}

	res, err := manager.Run(actions)
	report(manager.Path(), res, err)
	return err
}

// prepare loads the configuration and builds a manager for the hosts file
func prepare(cmd *cobra.Command, args []string, force bool) (*hostsfile.Manager, []models.Action, error) {
	actions, err := edit.ParseActions(args)
	if err != nil {
		return nil, nil, err
	}

	setuid := geteuid() != getuid()
	if setuid && (cmd.Flags().Changed("config") || cmd.Flags().Changed("hosts-file")) {
		return nil, nil, errSetuidOverride
	}
	if geteuid() != 0 {
		log.Print("not effectively root, forced dry-run mode")
		dryRun = true
	}

	cfg, err := config.New(configFile, !setuid)
	if err != nil {
		return nil, nil, err
	}
	if hostsFile != "" {
		cfg.HostsFile = hostsFile
	}
	printVerbose("config: hosts file %s, whitelist %s\n", cfg.HostsFile, strings.Join(cfg.WhitelistSet().Sorted(), ", "))

	hostname, err := os.Hostname()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to determine system hostname: %w", err)
	}

	g := guard.New(guard.Resolve(hostname), cfg.EnableDangerousOperations)
	if g.Disabled() {
		printVerbose("config: dangerous operations enabled, protected mappings are not checked\n")
	} else {
		for _, p := range g.Table() {
			printVerbose("protected: %s\n", p)
		}
	}

	manager := hostsfile.NewManager(hostsfile.Options{
		Path:      cfg.HostsFile,
		DryRun:    dryRun,
		Force:     force,
		Whitelist: cfg.WhitelistSet(),
		Guard:     g,
	})
	return manager, actions, nil
}
