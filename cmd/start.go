package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/engine"
	"github.com/flotilla-dev/flotilla/pkg/term"
)

var startCmd = &cobra.Command{
	Use:     "start CLUSTER",
	Aliases: []string{"run"},
	Short:   "Launch a cluster",
	Long: `Create, connect and start every container of a cluster in dependency
order. Containers within a layer start concurrently; the next layer waits
until the whole layer is running. On failure everything already started is
rolled back.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cluster := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	term.Step(fmt.Sprintf("launching cluster %q...", cluster))
	result, err := a.eng.Launch(ctx, a.man, cluster, engine.LaunchOptions{Start: true})
	if err != nil {
		term.Error(fmt.Sprintf("launch of cluster %q failed", cluster))
		return err
	}

	for i, layer := range result.Layers {
		for _, name := range layer {
			h := result.Containers[name]
			term.Line(fmt.Sprintf("layer %d: %s (%s) running", i, name, h.ShortID()))
		}
	}
	term.Step(fmt.Sprintf("cluster %q is up", cluster))
	return nil
}
