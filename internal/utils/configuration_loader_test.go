package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTRELEASECUT"
	testStrategyEnvironmentVariableConstant        = testEnvironmentPrefixConstant + "_RELEASE_STRATEGY"
	testStrategyKeyConstant                        = "release.strategy"
	testDefaultStrategyConstant                    = "local"
	testEmbeddedStrategyConstant                   = "remote"
	testFileStrategyConstant                       = "dispatch"
	testEnvironmentStrategyConstant                = "remote"
	testConfigFileNameConstant                     = "config.yaml"
	testConfigContentTemplateConstant              = "release:\n  strategy: %s\n"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type configurationFixture struct {
	Release releaseFixture `mapstructure:"release"`
}

type releaseFixture struct {
	Strategy string `mapstructure:"strategy"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedStrategy    string
		fileStrategy        string
		environmentStrategy string
		expectedStrategy    string
	}{
		{
			name:             "defaults_apply_without_sources",
			expectedStrategy: testDefaultStrategyConstant,
		},
		{
			name:             "embedded_overrides_defaults",
			embeddedStrategy: testEmbeddedStrategyConstant,
			expectedStrategy: testEmbeddedStrategyConstant,
		},
		{
			name:             "file_overrides_embedded",
			embeddedStrategy: testEmbeddedStrategyConstant,
			fileStrategy:     testFileStrategyConstant,
			expectedStrategy: testFileStrategyConstant,
		},
		{
			name:                "environment_overrides_file",
			embeddedStrategy:    testDefaultStrategyConstant,
			fileStrategy:        testFileStrategyConstant,
			environmentStrategy: testEnvironmentStrategyConstant,
			expectedStrategy:    testEnvironmentStrategyConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileStrategy) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileStrategy)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}

			if len(testCase.environmentStrategy) > 0 {
				testInstance.Setenv(testStrategyEnvironmentVariableConstant, testCase.environmentStrategy)
			}

			loaderOptions := utils.ConfigurationLoaderOptions{
				ConfigurationName: testConfigurationNameConstant,
				ConfigurationType: testConfigurationTypeConstant,
				EnvironmentPrefix: testEnvironmentPrefixConstant,
				SearchPaths:       []string{tempDirectory},
			}
			if len(testCase.embeddedStrategy) > 0 {
				loaderOptions.EmbeddedConfiguration = []byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedStrategy))
			}
			configurationLoader := utils.NewConfigurationLoader(loaderOptions)

			defaultValues := map[string]any{
				testStrategyKeyConstant: testDefaultStrategyConstant,
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedStrategy, loadedConfiguration.Release.Strategy)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderFindsFileInSearchPath(testInstance *testing.T) {
	workingDirectoryPath := testInstance.TempDir()
	configurationFilePath := filepath.Join(workingDirectoryPath, testConfigFileNameConstant)
	configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testFileStrategyConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))

	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName: testConfigurationNameConstant,
		ConfigurationType: testConfigurationTypeConstant,
		EnvironmentPrefix: testEnvironmentPrefixConstant,
		SearchPaths:       []string{workingDirectoryPath},
	})

	loadedConfiguration := configurationFixture{}
	metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testStrategyKeyConstant: testDefaultStrategyConstant}, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testFileStrategyConstant, loadedConfiguration.Release.Strategy)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName: testConfigurationNameConstant,
		ConfigurationType: testConfigurationTypeConstant,
		EnvironmentPrefix: testEnvironmentPrefixConstant,
	})

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
}
