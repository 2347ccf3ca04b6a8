package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/engine"
	"github.com/flotilla-dev/flotilla/pkg/term"
)

var createCmd = &cobra.Command{
	Use:   "create CLUSTER",
	Short: "Create a cluster's containers without starting them",
	Long: `Create every container of a cluster in dependency order and bind
inter-container aliases, leaving the containers stopped.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cluster := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	term.Step(fmt.Sprintf("creating cluster %q...", cluster))
	result, err := a.eng.Launch(ctx, a.man, cluster, engine.LaunchOptions{Start: false})
	if err != nil {
		term.Error(fmt.Sprintf("creation of cluster %q failed", cluster))
		return err
	}
	for _, layer := range result.Layers {
		for _, name := range layer {
			term.Line(fmt.Sprintf("%s (%s) created", name, result.Containers[name].ShortID()))
		}
	}
	return nil
}
