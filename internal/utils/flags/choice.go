package flags

import (
	"errors"
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix        = "<"
	choicePlaceholderSuffix        = ">"
	choiceSeparatorLiteral         = "|"
	choiceUsageEmptyTemplate       = "`%s`"
	choiceUsageFullTemplate        = "`%s` %s"
	choiceListSeparatorLiteral     = ", "
	unsupportedChoiceErrorTemplate = "unsupported %s %q (expected one of: %s)"
	choiceFlagNameFallbackConstant = "value"
)

// ErrUnsupportedChoice reports a value outside the allowed choice set.
var ErrUnsupportedChoice = errors.New("unsupported choice")

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ParseChoice normalizes candidate and matches it case-insensitively against choices.
// An empty candidate resolves to defaultChoice.
func ParseChoice(flagName string, candidate string, defaultChoice string, choices []string) (string, error) {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	if len(normalizedCandidate) == 0 {
		normalizedCandidate = strings.ToLower(strings.TrimSpace(defaultChoice))
	}

	for _, choice := range choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalizedCandidate {
			return normalizedCandidate, nil
		}
	}

	if len(strings.TrimSpace(flagName)) == 0 {
		flagName = choiceFlagNameFallbackConstant
	}
	expected := strings.Join(uniqueChoices(choices), choiceListSeparatorLiteral)
	return "", fmt.Errorf("%w: "+unsupportedChoiceErrorTemplate, ErrUnsupportedChoice, flagName, candidate, expected)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func uniqueChoices(choices []string) []string {
	return highlightDefaultChoice("", choices)
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault && len(normalizedChoice) > 0 {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
