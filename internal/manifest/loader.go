package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	json "github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	jsonExtensionConstant                = ".json"
	yamlExtensionConstant                = ".yaml"
	ymlExtensionConstant                 = ".yml"
	tomlExtensionConstant                = ".toml"
	repositoriesKeyConstant              = "repositories"
	mapstructureTagNameConstant          = "mapstructure"
	manifestMissingErrorTemplateConstant = "%w: %s"
	manifestReadErrorTemplateConstant    = "failed to read manifest %s: %w"
	manifestParseErrorTemplateConstant   = "failed to parse manifest %s: %w"
	manifestDecodeErrorTemplateConstant  = "failed to decode manifest %s: %w"
	unsupportedExtensionTemplateConstant = "unsupported manifest extension %q"
	unexpectedShapeTemplateConstant      = "manifest root must be a list or an object, got %T"
)

// ErrManifestNotFound indicates the manifest file does not exist.
var ErrManifestNotFound = errors.New("manifest not found")

// Load reads and decodes the manifest at manifestPath. It does not validate required fields.
func Load(manifestPath string) (ReleaseConfig, error) {
	contents, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return ReleaseConfig{}, fmt.Errorf(manifestMissingErrorTemplateConstant, ErrManifestNotFound, manifestPath)
		}
		return ReleaseConfig{}, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}

	genericDocument, parseError := parseDocument(filepath.Ext(manifestPath), contents)
	if parseError != nil {
		return ReleaseConfig{}, fmt.Errorf(manifestParseErrorTemplateConstant, manifestPath, parseError)
	}

	document, decodeError := decodeDocument(genericDocument)
	if decodeError != nil {
		return ReleaseConfig{}, fmt.Errorf(manifestDecodeErrorTemplateConstant, manifestPath, decodeError)
	}

	return NewReleaseConfig(document.OwnerName, document.Repositories), nil
}

func parseDocument(extension string, contents []byte) (any, error) {
	var genericDocument any
	switch strings.ToLower(extension) {
	case jsonExtensionConstant:
		decoder := json.NewDecoder(bytes.NewReader(contents))
		if decodeError := decoder.Decode(&genericDocument); decodeError != nil {
			return nil, decodeError
		}
	case yamlExtensionConstant, ymlExtensionConstant:
		if decodeError := yaml.Unmarshal(contents, &genericDocument); decodeError != nil {
			return nil, decodeError
		}
	case tomlExtensionConstant:
		tomlDocument := map[string]any{}
		if decodeError := toml.Unmarshal(contents, &tomlDocument); decodeError != nil {
			return nil, decodeError
		}
		genericDocument = tomlDocument
	default:
		return nil, fmt.Errorf(unsupportedExtensionTemplateConstant, extension)
	}
	return genericDocument, nil
}

func decodeDocument(genericDocument any) (releaseConfigDocument, error) {
	switch typedDocument := genericDocument.(type) {
	case []any:
		genericDocument = map[string]any{repositoriesKeyConstant: typedDocument}
	case map[string]any:
	case nil:
		return releaseConfigDocument{}, nil
	default:
		return releaseConfigDocument{}, fmt.Errorf(unexpectedShapeTemplateConstant, genericDocument)
	}

	var document releaseConfigDocument
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          mapstructureTagNameConstant,
		Result:           &document,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return releaseConfigDocument{}, decoderError
	}
	if decodeError := decoder.Decode(genericDocument); decodeError != nil {
		return releaseConfigDocument{}, decodeError
	}
	return document, nil
}
