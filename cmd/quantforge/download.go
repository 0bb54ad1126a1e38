package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/Simon666Z/quantforge/pkg/marketdata"
	"github.com/Simon666Z/quantforge/pkg/marketdata/provider"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download daily bars into a parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Ticker symbol",
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "First date in `YYYY-MM-DD` format",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "Last date in `YYYY-MM-DD` format",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", marketdata.ProviderPolygon, marketdata.ProviderFile),
				Value:   string(marketdata.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source file or glob for the file provider",
			},
			&cli.StringFlag{
				Name:    "polygon-api-key",
				Usage:   "Polygon API key",
				Sources: cli.EnvVars("POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:  "config-json",
				Usage: "JSON file with the provider download config. Replaces the other flags",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the parquet file",
				Value:   "data",
			},
		},
		Action: downloadAction,
	}
}

func downloadParams(cmd *cli.Command) (marketdata.ClientConfig, marketdata.DownloadParams, error) {
	providerName := cmd.String("provider")
	dataPath := cmd.String("output")

	if path := cmd.String("config-json"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return marketdata.ClientConfig{}, marketdata.DownloadParams{}, fmt.Errorf("failed to read download config: %w", err)
		}

		config, err := fillSecrets(providerName, string(content), map[string]string{
			"apiKey": cmd.String("polygon-api-key"),
		})
		if err != nil {
			return marketdata.ClientConfig{}, marketdata.DownloadParams{}, err
		}

		return marketdata.ParseDownloadConfig(providerName, config, dataPath)
	}

	base := marketdata.BaseDownloadConfig{
		Ticker:    cmd.String("ticker"),
		StartDate: cmd.String("start"),
		EndDate:   cmd.String("end"),
	}

	var clientConfig marketdata.ClientConfig

	switch provider.ProviderType(providerName) {
	case provider.ProviderPolygon:
		config := marketdata.PolygonDownloadConfig{BaseDownloadConfig: base, ApiKey: cmd.String("polygon-api-key")}
		if err := config.Validate(); err != nil {
			return marketdata.ClientConfig{}, marketdata.DownloadParams{}, err
		}

		clientConfig = config.ToClientConfig(dataPath)
	case provider.ProviderFile:
		config := marketdata.FileDownloadConfig{BaseDownloadConfig: base, SourcePath: cmd.String("source")}
		if err := config.Validate(); err != nil {
			return marketdata.ClientConfig{}, marketdata.DownloadParams{}, err
		}

		clientConfig = config.ToClientConfig(dataPath)
	default:
		_, err := marketdata.GetProviderInfo(providerName)

		return marketdata.ClientConfig{}, marketdata.DownloadParams{}, err
	}

	params, err := base.ToDownloadParams()
	if err != nil {
		return marketdata.ClientConfig{}, marketdata.DownloadParams{}, err
	}

	return clientConfig, params, nil
}

// fillSecrets sets keychain fields that a JSON download config leaves empty from secrets,
// so API keys can stay out of config files.
func fillSecrets(providerName string, content string, secrets map[string]string) (string, error) {
	fields, err := marketdata.GetDownloadKeychainFields(providerName)
	if err != nil {
		return "", err
	}

	var raw map[string]any
	if len(fields) == 0 || json.Unmarshal([]byte(content), &raw) != nil {
		return content, nil
	}

	changed := false

	for _, field := range fields {
		if value, ok := raw[field].(string); ok && value != "" {
			continue
		}

		if secret := secrets[field]; secret != "" {
			raw[field] = secret
			changed = true
		}
	}

	if !changed {
		return content, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to encode download config: %w", err)
	}

	return string(data), nil
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	clientConfig, params, err := downloadParams(cmd)
	if err != nil {
		return err
	}

	bar := progressbar.Default(-1, "Downloading "+params.Ticker)
	onProgress := func(current float64, total float64, message string) {
		bar.ChangeMax64(int64(total))
		bar.Describe(message)
		_ = bar.Set64(int64(current))
	}

	client, err := marketdata.NewClient(clientConfig, onProgress, log)
	if err != nil {
		return err
	}

	path, err := client.Download(ctx, params)
	_ = bar.Finish()

	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Downloaded %s to %s\n", params.Ticker, path)

	return nil
}
