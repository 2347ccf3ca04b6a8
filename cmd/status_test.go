package cmd

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-dev/flotilla/internal/engine"
)

func TestStatusLine_ColumnsAlignWhenStyled(t *testing.T) {
	// Force a color profile; the escape sequences it emits must not shift
	// the ports column.
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	colored := r.NewStyle().Foreground(lipgloss.Color("42"))

	row := engine.ContainerStatus{
		Name: "alice", ID: "id-alice", State: "running", Ports: []string{"8080:80"},
	}
	styled := statusLine(colored, row)
	plain := statusLine(lipgloss.NewStyle(), row)

	si := strings.Index(styled, "8080:80")
	pi := strings.Index(plain, "8080:80")
	require.NotEqual(t, -1, si)
	require.NotEqual(t, -1, pi)
	assert.Equal(t, lipgloss.Width(plain[:pi]), lipgloss.Width(styled[:si]))
	assert.Equal(t, 47, lipgloss.Width(styled[:si]))
}

func TestStatusLine_AbsentContainer(t *testing.T) {
	line := statusLine(lipgloss.NewStyle(), engine.ContainerStatus{
		Name: "bob1", State: "not created",
	})
	assert.True(t, strings.HasPrefix(line, "bob1"))
	assert.Contains(t, line, " - ")
	assert.Contains(t, line, "not created")
}
