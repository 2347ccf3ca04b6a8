package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/pkg/term"
)

var stopCmd = &cobra.Command{
	Use:   "stop CLUSTER",
	Short: "Stop a cluster's containers",
	Long: `Stop every container of a cluster in reverse dependency order,
without removing them.`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	cluster := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	term.Step(fmt.Sprintf("stopping cluster %q...", cluster))
	if err := a.eng.Stop(ctx, a.man, cluster); err != nil {
		return err
	}
	term.Step(fmt.Sprintf("cluster %q stopped", cluster))
	return nil
}
