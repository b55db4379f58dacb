package releases

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	introLineTemplateConstant            = "Cutting release branches for %d repositories (strategy: %s, release date: %s).\n"
	repositoryStartTemplateConstant      = "Cutting release for %s...\n"
	repositoryCreatedTemplateConstant    = "Successfully created release branch %s for %s.\n"
	repositoryExistsTemplateConstant     = "Release branch %s already exists for %s.\n"
	repositoryDispatchedTemplateConstant = "Triggered release workflow for %s (branch %s from %s).\n"
	repositoryFailedTemplateConstant     = "ERROR: %s: %s\n"
	compareLinkTemplateConstant          = "Verify: %s\n"
)

// Reporter emits progress lines for operators.
type Reporter interface {
	Printf(format string, arguments ...any)
}

// Flusher is implemented by buffered writers such as bufio.Writer.
type Flusher interface {
	Flush() error
}

type writerReporter struct {
	writer io.Writer
	mutex  *sync.Mutex
}

// NewWriterReporter constructs a Reporter that writes to writer, or stdout when writer is nil.
// Every line is flushed as soon as it is printed so progress stays visible behind buffered writers.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return writerReporter{writer: writer, mutex: &sync.Mutex{}}
}

func (reporter writerReporter) Printf(format string, arguments ...any) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	fmt.Fprintf(reporter.writer, format, arguments...)
	flushWriter(reporter.writer)
}

func flushWriter(writer io.Writer) {
	if flusher, isFlusher := writer.(Flusher); isFlusher {
		_ = flusher.Flush()
	}
}

func reportOutcome(reporter Reporter, result CutResult) {
	switch result.Outcome {
	case CutOutcomeCreated:
		reporter.Printf(repositoryCreatedTemplateConstant, result.ReleaseBranch, result.Repository)
	case CutOutcomeAlreadyExists:
		reporter.Printf(repositoryExistsTemplateConstant, result.ReleaseBranch, result.Repository)
	case CutOutcomeDispatched:
		reporter.Printf(repositoryDispatchedTemplateConstant, result.Repository, result.ReleaseBranch, result.BaseBranch)
	case CutOutcomeFailed:
		reporter.Printf(repositoryFailedTemplateConstant, result.Repository, result.Reason)
	}
	if len(result.CompareURL) > 0 {
		reporter.Printf(compareLinkTemplateConstant, result.CompareURL)
	}
}
