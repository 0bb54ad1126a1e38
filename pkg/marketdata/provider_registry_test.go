package marketdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

type ProviderRegistryTestSuite struct {
	suite.Suite
}

func TestProviderRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderRegistryTestSuite))
}

func (suite *ProviderRegistryTestSuite) TestGetSupportedProviders() {
	suite.Equal([]string{"file", "polygon"}, GetSupportedProviders())
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo() {
	info, err := GetProviderInfo("polygon")
	suite.NoError(err)
	suite.Equal("polygon", info.Name)
	suite.Equal("Polygon.io", info.DisplayName)
	suite.True(info.RequiresAuth)
	suite.NotEmpty(info.Description)

	info, err = GetProviderInfo("file")
	suite.NoError(err)
	suite.False(info.RequiresAuth)

	_, err = GetProviderInfo("binance")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *ProviderRegistryTestSuite) TestGetDownloadConfigSchema() {
	for _, name := range GetSupportedProviders() {
		suite.Run(name, func() {
			schema, err := GetDownloadConfigSchema(name)
			suite.Require().NoError(err)

			var schemaMap map[string]interface{}
			suite.Require().NoError(json.Unmarshal([]byte(schema), &schemaMap))

			suite.Equal("object", schemaMap["type"])
			properties, ok := schemaMap["properties"].(map[string]interface{})
			suite.Require().True(ok)
			suite.Contains(properties, "ticker")
			suite.Contains(properties, "startDate")
			suite.Contains(properties, "endDate")
		})
	}

	schema, err := GetDownloadConfigSchema("invalid")
	suite.Error(err)
	suite.Empty(schema)
}

func (suite *ProviderRegistryTestSuite) TestGetDownloadKeychainFields() {
	fields, err := GetDownloadKeychainFields("polygon")
	suite.NoError(err)
	suite.Equal([]string{"apiKey"}, fields)

	fields, err = GetDownloadKeychainFields("file")
	suite.NoError(err)
	suite.Empty(fields)

	_, err = GetDownloadKeychainFields("invalid")
	suite.Error(err)
}

func (suite *ProviderRegistryTestSuite) TestParseDownloadConfig() {
	clientConfig, params, err := ParseDownloadConfig("polygon",
		`{"ticker":"SPY","startDate":"2024-01-01","endDate":"2024-12-31","apiKey":"test-api-key"}`, "/tmp/data")
	suite.Require().NoError(err)
	suite.Equal(ProviderPolygon, clientConfig.ProviderType)
	suite.Equal("test-api-key", clientConfig.PolygonApiKey)
	suite.Equal("/tmp/data", clientConfig.DataPath)
	suite.Equal("SPY", params.Ticker)

	clientConfig, _, err = ParseDownloadConfig("file",
		`{"ticker":"SPY","startDate":"2024-01-01","endDate":"2024-12-31","sourcePath":"bars.csv"}`, "/tmp/data")
	suite.Require().NoError(err)
	suite.Equal("bars.csv", clientConfig.SourcePath)

	_, _, err = ParseDownloadConfig("invalid", `{"ticker":"SPY"}`, "/tmp/data")
	suite.Error(err)
	suite.Contains(err.Error(), "unsupported provider")

	_, _, err = ParseDownloadConfig("polygon", `{invalid json}`, "/tmp/data")
	suite.Error(err)

	_, _, err = ParseDownloadConfig("polygon", `{"ticker":"SPY"}`, "/tmp/data")
	suite.Error(err)
}
