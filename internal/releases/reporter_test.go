package releases_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/releases"
)

func TestWriterReporterFlushesBufferedOutput(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(destination, 4096)
	reporter := releases.NewWriterReporter(bufferedWriter)

	reporter.Printf("Cutting release for %s...\n", "ledger")
	require.Equal(testInstance, "Cutting release for ledger...\n", destination.String())
}

func TestFailureSummaryRendererFlushesBufferedOutput(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(destination, 4096)
	renderer := releases.NewFailureSummaryRenderer(bufferedWriter, false)

	ledger := releases.FailureLedger{}
	ledger.Record("ledger")
	renderer.Render(ledger, 1)

	require.Equal(testInstance, "Release cut failed for 1 of 1 repositories:\n  - ledger\n", destination.String())
}
