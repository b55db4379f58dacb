package releases

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/temirov/releasecut/internal/releasedate"
)

const (
	templateStartTagConstant             = "{"
	templateEndTagConstant               = "}"
	dateTagConstant                      = "date"
	webTagConstant                       = "web"
	ownerTagConstant                     = "owner"
	repositoryTagConstant                = "repo"
	baseTagConstant                      = "base"
	headTagConstant                      = "head"
	urlPathSeparatorConstant             = "/"
	invalidTemplateErrorTemplateConstant = "invalid template %q: %w"
	missingTagErrorTemplateConstant      = "template %q must reference {%s}"

	// DefaultLocalBranchTemplate names branches cut from a local checkout.
	DefaultLocalBranchTemplate = "TESTING/{date}"
	// DefaultRemoteBranchTemplate names branches created or dispatched through a platform API.
	DefaultRemoteBranchTemplate = "release/{date}"
	// DefaultGitHubCompareTemplate renders a GitHub comparison page.
	DefaultGitHubCompareTemplate = "{web}/{owner}/{repo}/compare/{base}...{head}?expand=1"
	// DefaultGitLabCompareTemplate renders a GitLab comparison page.
	DefaultGitLabCompareTemplate = "{web}/{owner}/{repo}/-/compare/{base}...{head}"
)

// ErrTemplateInvalid indicates a branch or link template could not be used.
var ErrTemplateInvalid = errors.New("invalid template")

// BranchNamer renders release branch names from a template referencing {date}.
type BranchNamer struct {
	template *fasttemplate.Template
}

// NewBranchNamer validates branchTemplate.
func NewBranchNamer(branchTemplate string) (BranchNamer, error) {
	parsedTemplate, parseError := parseTemplate(branchTemplate, dateTagConstant)
	if parseError != nil {
		return BranchNamer{}, parseError
	}
	return BranchNamer{template: parsedTemplate}, nil
}

// IsZero reports whether the namer was built without a template.
func (namer BranchNamer) IsZero() bool {
	return namer.template == nil
}

// Name renders the branch name for releaseDate.
func (namer BranchNamer) Name(releaseDate releasedate.ReleaseDate) string {
	return namer.template.ExecuteStringStd(map[string]any{dateTagConstant: releaseDate.String()})
}

// CompareLinkBuilder renders verification links between a base and a release branch.
type CompareLinkBuilder struct {
	template   *fasttemplate.Template
	webBaseURL string
}

// NewCompareLinkBuilder validates compareTemplate. webBaseURL fills {web}.
func NewCompareLinkBuilder(compareTemplate string, webBaseURL string) (*CompareLinkBuilder, error) {
	parsedTemplate, parseError := parseTemplate(compareTemplate, headTagConstant)
	if parseError != nil {
		return nil, parseError
	}
	return &CompareLinkBuilder{
		template:   parsedTemplate,
		webBaseURL: strings.TrimRight(strings.TrimSpace(webBaseURL), urlPathSeparatorConstant),
	}, nil
}

// Build renders the link, or returns an empty string when any part is unknown.
func (builder *CompareLinkBuilder) Build(ownerName string, repositoryName string, baseBranch string, releaseBranch string) string {
	if builder == nil {
		return ""
	}
	values := map[string]any{
		webTagConstant:        builder.webBaseURL,
		ownerTagConstant:      strings.TrimSpace(ownerName),
		repositoryTagConstant: strings.TrimSpace(repositoryName),
		baseTagConstant:       strings.TrimSpace(baseBranch),
		headTagConstant:       strings.TrimSpace(releaseBranch),
	}
	for _, value := range values {
		if len(value.(string)) == 0 {
			return ""
		}
	}
	return builder.template.ExecuteStringStd(values)
}

func parseTemplate(rawTemplate string, requiredTag string) (*fasttemplate.Template, error) {
	trimmedTemplate := strings.TrimSpace(rawTemplate)
	if !strings.Contains(trimmedTemplate, templateStartTagConstant+requiredTag+templateEndTagConstant) {
		return nil, fmt.Errorf("%w: "+missingTagErrorTemplateConstant, ErrTemplateInvalid, trimmedTemplate, requiredTag)
	}
	parsedTemplate, parseError := fasttemplate.NewTemplate(trimmedTemplate, templateStartTagConstant, templateEndTagConstant)
	if parseError != nil {
		return nil, fmt.Errorf(invalidTemplateErrorTemplateConstant, trimmedTemplate, errors.Join(ErrTemplateInvalid, parseError))
	}
	return parsedTemplate, nil
}
