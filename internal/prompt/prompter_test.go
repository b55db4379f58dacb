package prompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/prompt"
)

func TestLinePrompterAsk(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedAnswer string
	}{
		{name: "newline_terminated", input: "04.07.2022\n", expectedAnswer: "04.07.2022"},
		{name: "surrounding_whitespace", input: "  2024-11-05 \r\n", expectedAnswer: "2024-11-05"},
		{name: "end_of_input_without_newline", input: "05/08/2024", expectedAnswer: "05/08/2024"},
		{name: "empty_input", input: "", expectedAnswer: ""},
		{name: "only_first_line", input: "first\nsecond\n", expectedAnswer: "first"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			prompter := prompt.NewLinePrompter(strings.NewReader(testCase.input), outputBuffer)

			answer, askError := prompter.AskReleaseDate(context.Background())
			require.NoError(testInstance, askError)
			require.Equal(testInstance, testCase.expectedAnswer, answer)
			require.Equal(testInstance, prompt.ReleaseDateQuestion, outputBuffer.String())
		})
	}
}

func TestLinePrompterWithoutInput(testInstance *testing.T) {
	_, askError := prompt.NewLinePrompter(nil, nil).Ask(context.Background(), "question")
	require.ErrorIs(testInstance, askError, prompt.ErrInputNotConfigured)
}

func TestLinePrompterHonorsCancelledContext(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	outputBuffer := &bytes.Buffer{}
	_, askError := prompt.NewLinePrompter(strings.NewReader("answer\n"), outputBuffer).Ask(cancelledContext, "question")
	require.ErrorIs(testInstance, askError, context.Canceled)
	require.Empty(testInstance, outputBuffer.String())
}
