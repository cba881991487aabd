package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hostsmod/internal/hostsfile"
	"hostsmod/internal/monitor"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] -- ACTIONS...",
	Short: "Keep actions applied while other tools rewrite the hosts file",
	Long: `watch applies the actions once and then again every time the hosts file
changes, until interrupted. Failed runs are reported and do not stop watching.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	manager, actions, err := prepare(cmd, args, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(manager, actions)
	mon.OnResult = func(res *hostsfile.Result, err error) {
		report(manager.Path(), res, err)
	}

	printVerbose("watching %s\n", manager.Path())
	return mon.Run(ctx)
}
