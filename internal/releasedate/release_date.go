// Package releasedate validates the operator-supplied release date.
package releasedate

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

const (
	invalidDateErrorTemplateConstant    = "%w: %q is not a recognizable calendar date"
	branchSuffixForbiddenCharacters     = " ~^:?*[\\"
	unsafeSuffixErrorTemplateConstant   = "%w: %q cannot be used in a branch name"
	incompleteDateErrorTemplateConstant = "%w: %q needs a day, a month and a year"
	minimumDateComponentCount           = 3
)

var (
	// ErrReleaseDateRequired indicates the operator supplied no date.
	ErrReleaseDateRequired = errors.New("release date is required")
	// ErrReleaseDateInvalid indicates the supplied text is not a parseable date.
	ErrReleaseDateInvalid = errors.New("invalid release date")
)

// ReleaseDate is a validated date. Its text, not the parsed value, names branches.
type ReleaseDate struct {
	text   string
	parsed time.Time
}

// Parse validates rawDate and keeps its trimmed text as the branch suffix.
func Parse(rawDate string) (ReleaseDate, error) {
	trimmedDate := strings.TrimSpace(rawDate)
	if len(trimmedDate) == 0 {
		return ReleaseDate{}, ErrReleaseDateRequired
	}

	if len(dateComponents(trimmedDate)) < minimumDateComponentCount {
		return ReleaseDate{}, fmt.Errorf(incompleteDateErrorTemplateConstant, ErrReleaseDateInvalid, trimmedDate)
	}
	parsedDate, parseError := dateparse.ParseAny(trimmedDate)
	if parseError != nil {
		return ReleaseDate{}, fmt.Errorf(invalidDateErrorTemplateConstant, ErrReleaseDateInvalid, trimmedDate)
	}
	if strings.ContainsAny(trimmedDate, branchSuffixForbiddenCharacters) {
		return ReleaseDate{}, fmt.Errorf(unsafeSuffixErrorTemplateConstant, ErrReleaseDateInvalid, trimmedDate)
	}

	return ReleaseDate{text: trimmedDate, parsed: parsedDate}, nil
}

// dateComponents splits on every separator, so bare years, unix timestamps and month-only values come up short.
func dateComponents(dateText string) []string {
	return strings.FieldsFunc(dateText, func(character rune) bool {
		return !unicode.IsLetter(character) && !unicode.IsDigit(character)
	})
}

// String returns the branch suffix.
func (releaseDate ReleaseDate) String() string {
	return releaseDate.text
}

// Time returns the parsed calendar date.
func (releaseDate ReleaseDate) Time() time.Time {
	return releaseDate.parsed
}

// IsZero reports whether the value was never validated.
func (releaseDate ReleaseDate) IsZero() bool {
	return len(releaseDate.text) == 0
}
