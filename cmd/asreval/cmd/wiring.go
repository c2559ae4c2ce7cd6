package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/asreval/bootstrap"
	"github.com/kbukum/asreval/dataset"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/observability"
	"github.com/kbukum/asreval/runner"
	"github.com/kbukum/asreval/storage"
	_ "github.com/kbukum/asreval/storage/local"
	_ "github.com/kbukum/asreval/storage/s3"
	"github.com/kbukum/asreval/transcription"
	"github.com/kbukum/asreval/transcription/awstranscribe"
	"github.com/kbukum/asreval/transcription/whisper"
	"github.com/kbukum/asreval/util"
	"github.com/kbukum/asreval/version"
)

// runTask runs task under the application lifecycle with telemetry set
// up for its duration.
func runTask(cmd *cobra.Command, task func(ctx context.Context) error) error {
	app.OnStart(func(ctx context.Context) error {
		shutdown, err := observability.Setup(ctx, appCfg.Observability, app.Name, version.Current().Short(), appCfg.Environment)
		if err != nil {
			return err
		}
		app.OnStop(bootstrap.Hook(shutdown))
		details := "disabled"
		if appCfg.Observability.Enabled {
			details = appCfg.Observability.Endpoint
		}
		app.Summary.TrackInfrastructure("telemetry", "otlp", details, true)
		return nil
	})
	return app.RunTask(cmd.Context(), task)
}

func newMetrics() *observability.Metrics {
	m, err := observability.NewMetrics(observability.Meter(appName))
	if err != nil {
		app.Logger.Warn("Metrics unavailable", logger.Fields(logger.FieldError, err.Error()))
		return nil
	}
	return m
}

// credentials fills missing AWS keys from the configured access key CSV.
func credentials(accessKey, secretKey string) (string, string, error) {
	path := appCfg.Transcription.CredentialsFile
	if accessKey != "" || path == "" {
		return accessKey, secretKey, nil
	}
	creds, err := dataset.ReadCredentials(path)
	if err != nil {
		return "", "", err
	}
	return creds.AccessKey, creds.SecretKey, nil
}

func newStore() (storage.Storage, error) {
	cfg := appCfg.Storage
	if cfg.Provider == storage.ProviderS3 {
		var err error
		if cfg.AccessKey, cfg.SecretKey, err = credentials(cfg.AccessKey, cfg.SecretKey); err != nil {
			return nil, err
		}
	}
	store, err := storage.New(cfg, app.Logger)
	if err != nil {
		return nil, err
	}

	details := cfg.BasePath
	if b, ok := store.(storage.Bucketed); ok {
		details = b.Bucket()
		app.Logger.Debug("Storage credentials", logger.Fields(
			logger.FieldBucket, b.Bucket(),
			"access_key", util.MaskSecret(cfg.AccessKey, 4),
		))
	}
	app.Summary.TrackInfrastructure("storage", cfg.Provider, details, true)
	return store, nil
}

func newProvider(ctx context.Context, store storage.Storage) (transcription.Provider, error) {
	reg := transcription.NewRegistry()
	reg.RegisterFactory(awstranscribe.ProviderName, awstranscribe.Factory(app.Logger))
	reg.RegisterFactory(whisper.ProviderName, whisper.Factory(store, app.Logger))

	name := appCfg.Transcription.Provider
	pcfg := appCfg.Transcription.ProviderConfig()
	if name == awstranscribe.ProviderName {
		access, _ := pcfg["access_key"].(string)
		secret, _ := pcfg["secret_key"].(string)
		access, secret, err := credentials(util.Coalesce(access, appCfg.Storage.AccessKey), util.Coalesce(secret, appCfg.Storage.SecretKey))
		if err != nil {
			return nil, err
		}
		region, _ := pcfg["region"].(string)
		pcfg["region"] = util.Coalesce(region, appCfg.Storage.Region)
		pcfg["access_key"], pcfg["secret_key"] = access, secret
	}

	p, err := reg.Create(name, pcfg)
	if err != nil {
		return nil, err
	}
	healthy := true
	if verbose {
		healthy = p.IsAvailable(ctx)
	}
	app.Summary.TrackInfrastructure("transcription", p.Name(), util.Coalesce(appCfg.Runner.LanguageCode, "en-US"), healthy)
	return p, nil
}

// newRunner wires storage, provider and metrics into a runner.
func newRunner(ctx context.Context) (*runner.Runner, error) {
	store, err := newStore()
	if err != nil {
		return nil, err
	}
	p, err := newProvider(ctx, store)
	if err != nil {
		return nil, err
	}
	return runner.New(appCfg.Runner, store, p, app.Logger, runner.WithMetrics(newMetrics()))
}
