package marketdata

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "Adjusted daily aggregates for US equities",
		RequiresAuth: true,
	},
	ProviderFile: {
		Name:         string(ProviderFile),
		DisplayName:  "Local file",
		Description:  "Parquet or CSV files with time, symbol, open, high, low, close, volume columns",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns the sorted names of all supported providers.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

func downloadConfigOf(providerName string) (any, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return PolygonDownloadConfig{}, nil
	case ProviderFile:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return FileDownloadConfig{}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}

// GetDownloadConfigSchema returns the JSON schema for a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	config, err := downloadConfigOf(providerName)
	if err != nil {
		return "", err
	}

	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	data, err := json.Marshal(reflector.Reflect(config))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal schema", err)
	}

	return string(data), nil
}

// GetDownloadKeychainFields returns the json names of fields tagged keychain:"true".
// Callers store those values in a secret store rather than in plain config files.
func GetDownloadKeychainFields(providerName string) ([]string, error) {
	config, err := downloadConfigOf(providerName)
	if err != nil {
		return nil, err
	}

	return keychainFields(reflect.TypeOf(config)), nil
}

func keychainFields(t reflect.Type) []string {
	var fields []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			fields = append(fields, keychainFields(field.Type)...)

			continue
		}

		if field.Tag.Get("keychain") == "true" {
			fields = append(fields, field.Tag.Get("json"))
		}
	}

	return fields
}

// ParseDownloadConfig parses a JSON configuration string for the given provider
// and returns the matching client configuration and download parameters.
func ParseDownloadConfig(providerName string, jsonConfig string, dataPath string) (ClientConfig, DownloadParams, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		config, err := ParsePolygonConfig(jsonConfig)
		if err != nil {
			return ClientConfig{}, DownloadParams{}, err
		}

		params, err := config.ToDownloadParams()

		return config.ToClientConfig(dataPath), params, err
	case ProviderFile:
		config, err := ParseFileConfig(jsonConfig)
		if err != nil {
			return ClientConfig{}, DownloadParams{}, err
		}

		params, err := config.ToDownloadParams()

		return config.ToClientConfig(dataPath), params, err
	default:
		return ClientConfig{}, DownloadParams{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}
