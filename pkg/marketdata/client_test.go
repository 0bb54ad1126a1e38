package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/mocks"
	"github.com/Simon666Z/quantforge/pkg/errors"
	"github.com/Simon666Z/quantforge/pkg/marketdata/provider"
)

// ClientTestSuite is a test suite for the Client implementation
type ClientTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockSource *mocks.MockSource
	tempDir    string
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockSource = mocks.NewMockSource(suite.ctrl)
	suite.tempDir = suite.T().TempDir()
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ClientTestSuite) client() *Client {
	return NewClientWithSource(suite.mockSource, ClientConfig{
		ProviderType: ProviderFile,
		DataPath:     filepath.Join(suite.tempDir, "data"),
		SourcePath:   "unused.parquet",
	}, nil)
}

func (suite *ClientTestSuite) TestClientDownload() {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC)

	series := mocks.FromCloses("AAPL", start, []float64{100, 101, 102})

	suite.mockSource.EXPECT().
		Fetch(gomock.Any(), "AAPL", start, end).
		Return(series, nil).
		Times(1)

	outputPath, err := suite.client().Download(context.Background(), DownloadParams{
		Ticker:    "AAPL",
		StartDate: start,
		EndDate:   end,
	})
	suite.Require().NoError(err)

	suite.Equal(filepath.Join(suite.tempDir, "data", "AAPL_2023-01-02_2023-01-04.parquet"), outputPath)
	suite.FileExists(outputPath)

	// the file reads back through the file provider
	source, err := provider.NewDuckDBSource(outputPath, nil)
	suite.Require().NoError(err)
	defer source.Close()

	fetched, err := source.Fetch(context.Background(), "AAPL", start, end)
	suite.Require().NoError(err)
	suite.Equal(series.Close, fetched.Close)
	suite.Equal(series.Times, fetched.Times)
}

func (suite *ClientTestSuite) TestClientDownloadFetchError() {
	suite.mockSource.EXPECT().
		Fetch(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).
		Return(types.BarSeries{}, errors.New(errors.ErrCodeNoDataFound, "no bars")).
		Times(1)

	_, err := suite.client().Download(context.Background(), DownloadParams{
		Ticker:    "AAPL",
		StartDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))

	_, statErr := os.Stat(filepath.Join(suite.tempDir, "data"))
	suite.True(os.IsNotExist(statErr))
}

func (suite *ClientTestSuite) TestDownloadParamsValidation() {
	testCases := []struct {
		name   string
		params DownloadParams
	}{
		{
			name: "missing ticker",
			params: DownloadParams{
				StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "missing start date",
			params: DownloadParams{
				Ticker:  "AAPL",
				EndDate: time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "end before start",
			params: DownloadParams{
				Ticker:    "AAPL",
				StartDate: time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.client().Download(context.Background(), tc.params)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
		})
	}
}

func (suite *ClientTestSuite) TestClientConfigValidation() {
	testCases := []struct {
		name   string
		config ClientConfig
	}{
		{
			name:   "missing provider",
			config: ClientConfig{DataPath: suite.tempDir},
		},
		{
			name:   "unknown provider",
			config: ClientConfig{ProviderType: "binance", DataPath: suite.tempDir},
		},
		{
			name:   "missing data path",
			config: ClientConfig{ProviderType: ProviderPolygon, PolygonApiKey: "key"},
		},
		{
			name:   "polygon without api key",
			config: ClientConfig{ProviderType: ProviderPolygon, DataPath: suite.tempDir},
		},
		{
			name:   "file without source path",
			config: ClientConfig{ProviderType: ProviderFile, DataPath: suite.tempDir},
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			client, err := NewClient(tc.config, nil, nil)
			suite.Error(err)
			suite.Nil(client)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}

func (suite *ClientTestSuite) TestNewClient() {
	client, err := NewClient(ClientConfig{
		ProviderType:  ProviderPolygon,
		DataPath:      suite.tempDir,
		PolygonApiKey: "test-key",
	}, func(float64, float64, string) {}, nil)
	suite.Require().NoError(err)
	suite.IsType(&provider.PolygonClient{}, client.source)

	_, err = NewClient(ClientConfig{
		ProviderType: ProviderFile,
		DataPath:     suite.tempDir,
		SourcePath:   filepath.Join(suite.tempDir, "missing.parquet"),
	}, nil, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

func (suite *ClientTestSuite) TestOutputFileName() {
	params := DownloadParams{
		Ticker:    "SPY",
		StartDate: time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.Equal("SPY_2020-02-03_2020-12-31.parquet", params.OutputFileName())
}
