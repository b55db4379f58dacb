package cut

import (
	"strings"

	"github.com/temirov/releasecut/internal/githubauth"
	"github.com/temirov/releasecut/internal/releases"
)

const (
	// StrategyLocal cuts branches in local checkouts.
	StrategyLocal = "local"
	// StrategyRemote creates branches through the platform API.
	StrategyRemote = "remote"
	// StrategyDispatch triggers a release workflow on the platform.
	StrategyDispatch = "dispatch"
	// PlatformGitHub selects github.com or GitHub Enterprise.
	PlatformGitHub = "github"
	// PlatformGitLab selects gitlab.com or a self-managed GitLab.
	PlatformGitLab = "gitlab"

	defaultManifestPathConstant     = "configs.json"
	defaultRepositoriesRootConstant = "../.."
	defaultGitHubWebURLConstant     = "https://github.com"
	defaultGitLabWebURLConstant     = "https://gitlab.com"

	manifestConfigKeyConstant             = "manifest"
	strategyConfigKeyConstant             = "strategy"
	platformConfigKeyConstant             = "platform"
	ownerConfigKeyConstant                = "owner"
	workflowConfigKeyConstant             = "workflow"
	repositoriesRootConfigKeyConstant     = "repositories_root"
	webURLConfigKeyConstant               = "web_url"
	apiURLConfigKeyConstant               = "api_url"
	compareURLTemplateConfigKeyConstant   = "compare_url_template"
	localBranchTemplateConfigKeyConstant  = "local_branch_template"
	remoteBranchTemplateConfigKeyConstant = "remote_branch_template"
	openBrowserConfigKeyConstant          = "open_browser"
	tokenVariableConfigKeyConstant        = "token_variable"
	colorConfigKeyConstant                = "color"
	configurationKeySeparatorConstant     = "."
)

// StrategyChoices lists the supported strategies.
var StrategyChoices = []string{StrategyLocal, StrategyRemote, StrategyDispatch}

// PlatformChoices lists the supported hosting platforms.
var PlatformChoices = []string{PlatformGitHub, PlatformGitLab}

// CommandConfiguration captures the release section of the configuration file.
type CommandConfiguration struct {
	Manifest             string `mapstructure:"manifest"`
	Strategy             string `mapstructure:"strategy"`
	Platform             string `mapstructure:"platform"`
	Owner                string `mapstructure:"owner"`
	Workflow             string `mapstructure:"workflow"`
	RepositoriesRoot     string `mapstructure:"repositories_root"`
	WebURL               string `mapstructure:"web_url"`
	APIURL               string `mapstructure:"api_url"`
	CompareURLTemplate   string `mapstructure:"compare_url_template"`
	LocalBranchTemplate  string `mapstructure:"local_branch_template"`
	RemoteBranchTemplate string `mapstructure:"remote_branch_template"`
	OpenBrowser          bool   `mapstructure:"open_browser"`
	TokenVariable        string `mapstructure:"token_variable"`
	Color                bool   `mapstructure:"color"`
}

// DefaultCommandConfiguration reproduces the classic behaviour: local checkouts two levels up,
// TESTING/{date} branches and GitHub compare links opened in the browser.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Manifest:             defaultManifestPathConstant,
		Strategy:             StrategyLocal,
		Platform:             PlatformGitHub,
		RepositoriesRoot:     defaultRepositoriesRootConstant,
		LocalBranchTemplate:  releases.DefaultLocalBranchTemplate,
		RemoteBranchTemplate: releases.DefaultRemoteBranchTemplate,
		OpenBrowser:          true,
		TokenVariable:        githubauth.EnvGitHubToken,
		Color:                true,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	keyPrefix := strings.TrimSpace(prefix)
	if len(keyPrefix) > 0 {
		keyPrefix += configurationKeySeparatorConstant
	}
	return map[string]any{
		keyPrefix + manifestConfigKeyConstant:             defaults.Manifest,
		keyPrefix + strategyConfigKeyConstant:             defaults.Strategy,
		keyPrefix + platformConfigKeyConstant:             defaults.Platform,
		keyPrefix + ownerConfigKeyConstant:                defaults.Owner,
		keyPrefix + workflowConfigKeyConstant:             defaults.Workflow,
		keyPrefix + repositoriesRootConfigKeyConstant:     defaults.RepositoriesRoot,
		keyPrefix + webURLConfigKeyConstant:               defaults.WebURL,
		keyPrefix + apiURLConfigKeyConstant:               defaults.APIURL,
		keyPrefix + compareURLTemplateConfigKeyConstant:   defaults.CompareURLTemplate,
		keyPrefix + localBranchTemplateConfigKeyConstant:  defaults.LocalBranchTemplate,
		keyPrefix + remoteBranchTemplateConfigKeyConstant: defaults.RemoteBranchTemplate,
		keyPrefix + openBrowserConfigKeyConstant:          defaults.OpenBrowser,
		keyPrefix + tokenVariableConfigKeyConstant:        defaults.TokenVariable,
		keyPrefix + colorConfigKeyConstant:                defaults.Color,
	}
}

// Sanitize trims values and restores defaults for blank required settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.Manifest = valueOrDefault(configuration.Manifest, defaults.Manifest)
	sanitized.Strategy = valueOrDefault(configuration.Strategy, defaults.Strategy)
	sanitized.Platform = valueOrDefault(configuration.Platform, defaults.Platform)
	sanitized.Owner = strings.TrimSpace(configuration.Owner)
	sanitized.Workflow = strings.TrimSpace(configuration.Workflow)
	sanitized.RepositoriesRoot = valueOrDefault(configuration.RepositoriesRoot, defaults.RepositoriesRoot)
	sanitized.WebURL = strings.TrimRight(strings.TrimSpace(configuration.WebURL), "/")
	sanitized.APIURL = strings.TrimSpace(configuration.APIURL)
	sanitized.CompareURLTemplate = strings.TrimSpace(configuration.CompareURLTemplate)
	sanitized.LocalBranchTemplate = valueOrDefault(configuration.LocalBranchTemplate, defaults.LocalBranchTemplate)
	sanitized.RemoteBranchTemplate = valueOrDefault(configuration.RemoteBranchTemplate, defaults.RemoteBranchTemplate)
	sanitized.TokenVariable = valueOrDefault(configuration.TokenVariable, defaults.TokenVariable)
	return sanitized
}

// ResolvedWebURL returns the configured web url or the public instance of the platform.
func (configuration CommandConfiguration) ResolvedWebURL() string {
	if len(configuration.WebURL) > 0 {
		return configuration.WebURL
	}
	if strings.EqualFold(configuration.Platform, PlatformGitLab) {
		return defaultGitLabWebURLConstant
	}
	return defaultGitHubWebURLConstant
}

// ResolvedCompareURLTemplate returns the configured compare template or the platform default.
func (configuration CommandConfiguration) ResolvedCompareURLTemplate() string {
	if len(configuration.CompareURLTemplate) > 0 {
		return configuration.CompareURLTemplate
	}
	if strings.EqualFold(configuration.Platform, PlatformGitLab) {
		return releases.DefaultGitLabCompareTemplate
	}
	return releases.DefaultGitHubCompareTemplate
}

func valueOrDefault(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}
