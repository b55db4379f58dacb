package releases

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	summaryHeaderTemplateConstant = "Release cut failed for %d of %d repositories:"
	summaryItemPrefixConstant     = "  - "
	summaryLineSeparatorConstant  = "\n"
	summaryErrorColorConstant     = "9"
	summaryItemColorConstant      = "11"
)

// FailureSummaryRenderer writes the end-of-run failure report.
type FailureSummaryRenderer struct {
	writer      io.Writer
	headerStyle lipgloss.Style
	itemStyle   lipgloss.Style
}

// NewFailureSummaryRenderer binds styles to writer. Colors are dropped unless colorEnabled is set and
// writer is a terminal that supports them.
func NewFailureSummaryRenderer(writer io.Writer, colorEnabled bool) *FailureSummaryRenderer {
	renderer := lipgloss.NewRenderer(writer)
	if !colorEnabled {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &FailureSummaryRenderer{
		writer:      writer,
		headerStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(summaryErrorColorConstant)),
		itemStyle:   renderer.NewStyle().Foreground(lipgloss.Color(summaryItemColorConstant)),
	}
}

// Render writes nothing for an empty ledger.
func (summaryRenderer *FailureSummaryRenderer) Render(ledger FailureLedger, attemptedCount int) {
	failedRepositories := ledger.Repositories()
	if len(failedRepositories) == 0 {
		return
	}

	lines := make([]string, 0, len(failedRepositories)+1)
	lines = append(lines, summaryRenderer.headerStyle.Render(fmt.Sprintf(summaryHeaderTemplateConstant, len(failedRepositories), attemptedCount)))
	for _, repositoryIdentifier := range failedRepositories {
		lines = append(lines, summaryItemPrefixConstant+summaryRenderer.itemStyle.Render(repositoryIdentifier))
	}
	fmt.Fprintln(summaryRenderer.writer, strings.Join(lines, summaryLineSeparatorConstant))
	flushWriter(summaryRenderer.writer)
}
