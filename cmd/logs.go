package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var logsFollow bool

var logsCmd = &cobra.Command{
	Use:     "logs CLUSTER",
	Aliases: []string{"attach"},
	Short:   "Show logs from a cluster's containers",
	Long: `Stream the logs of every container in a cluster, each line prefixed
with the container name.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "F", false, "follow log output")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cluster := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.eng.Logs(ctx, a.man, cluster, logsFollow, os.Stdout)
}
