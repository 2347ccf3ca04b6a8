package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/engine"
)

var (
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	absentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

var statusCmd = &cobra.Command{
	Use:   "status CLUSTER",
	Short: "Show the state of a cluster's containers",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cluster := args[0]
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	statuses, err := a.eng.Status(ctx, a.man, cluster)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-20s %-14s %-10s %s", "CONTAINER", "ID", "STATE", "PORTS")))
	for _, st := range statuses {
		style := absentStyle
		switch {
		case st.Running:
			style = runningStyle
		case st.ID != "":
			style = stoppedStyle
		}
		fmt.Println(statusLine(style, st))
	}
	return nil
}

// statusLine formats one status row. The state is padded before styling:
// ANSI escape bytes would count toward a printf width and shift the ports
// column on colored rows.
func statusLine(style lipgloss.Style, st engine.ContainerStatus) string {
	id := st.ID
	if id == "" {
		id = "-"
	}
	state := fmt.Sprintf("%-10s", st.State)
	return fmt.Sprintf("%-20s %-14s %s %s",
		st.Name, id, style.Render(state), strings.Join(st.Ports, ", "))
}
