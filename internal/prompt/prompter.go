package prompt

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// ReleaseDateQuestion asks for the production push date.
const ReleaseDateQuestion = "Enter the date of push to prod (Ex: 04.07.2022): "

// ErrInputNotConfigured indicates the prompter has no reader.
var ErrInputNotConfigured = errors.New("prompt input not configured")

// LinePrompter writes a question and reads a single line answer.
type LinePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewLinePrompter constructs a prompter from the provided reader and writer.
func NewLinePrompter(input io.Reader, output io.Writer) *LinePrompter {
	prompter := &LinePrompter{writer: output}
	if input != nil {
		prompter.reader = bufio.NewReader(input)
	}
	return prompter
}

// Ask writes question and returns the trimmed answer. End of input yields whatever was typed.
func (prompter *LinePrompter) Ask(executionContext context.Context, question string) (string, error) {
	if prompter.reader == nil {
		return "", ErrInputNotConfigured
	}
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return "", contextError
		}
	}

	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, question); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}
	return strings.TrimSpace(response), nil
}

// AskReleaseDate asks ReleaseDateQuestion.
func (prompter *LinePrompter) AskReleaseDate(executionContext context.Context) (string, error) {
	return prompter.Ask(executionContext, ReleaseDateQuestion)
}
