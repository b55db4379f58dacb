package cli

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/releasecut/internal/utils"
)

//go:embed default_config.yaml
var defaultConfigurationDocument []byte

// configurationLoaderOptions describes the layers below command-line flags: the YAML compiled into the
// binary, a config.yaml found on the search path and RELEASECUT_* environment variables.
func configurationLoaderOptions() utils.ConfigurationLoaderOptions {
	return utils.ConfigurationLoaderOptions{
		ConfigurationName:         configurationNameConstant,
		ConfigurationType:         configurationTypeConstant,
		EnvironmentPrefix:         environmentPrefixConstant,
		SearchPaths:               configurationSearchPaths(),
		EmbeddedConfiguration:     bytes.Clone(defaultConfigurationDocument),
		EmbeddedConfigurationType: configurationTypeConstant,
	}
}

// configurationSearchPaths puts RELEASECUT_CONFIG_SEARCH_PATH entries ahead of the working directory.
func configurationSearchPaths() []string {
	searchPaths := []string{}
	for _, candidate := range filepath.SplitList(os.Getenv(configurationSearchPathEnvironmentConstant)) {
		if trimmedCandidate := strings.TrimSpace(candidate); len(trimmedCandidate) > 0 {
			searchPaths = append(searchPaths, trimmedCandidate)
		}
	}
	return append(searchPaths, defaultConfigurationSearchPathConstant)
}
