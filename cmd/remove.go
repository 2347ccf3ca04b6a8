package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/pkg/term"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove CLUSTER",
	Aliases: []string{"rm", "down"},
	Short:   "Stop and remove a cluster",
	Long: `Stop and remove every container of a cluster in reverse dependency
order, then remove the cluster network. Teardown proceeds through remaining
containers even when individual removals fail.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "skip the confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	cluster := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !removeForce {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Stop and remove all containers of cluster %q?", cluster),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			term.Line("aborted")
			return nil
		}
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	term.Step(fmt.Sprintf("removing cluster %q...", cluster))
	if err := a.eng.Teardown(ctx, a.man, cluster); err != nil {
		return err
	}
	term.Step(fmt.Sprintf("cluster %q removed", cluster))
	return nil
}
