package cmd

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/fido-usage-cli/internal/adapters/portal"
	"github.com/bnema/fido-usage-cli/internal/adapters/render/summary"
	tomlrepo "github.com/bnema/fido-usage-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/fido-usage-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/fido-usage-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/fido-usage-cli/internal/adapters/secrets/pass"
	"github.com/bnema/fido-usage-cli/internal/application"
	"github.com/bnema/fido-usage-cli/internal/config"
	"github.com/bnema/fido-usage-cli/internal/logging"
	"github.com/bnema/fido-usage-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

type app struct {
	cfg             config.Config
	service         *application.Service
	portal          portal.Client
	logger          *logrus.Entry
	summaryRenderer func(summary.Input) (string, error)
	now             func() time.Time
}

type wireOptions struct {
	ConfigPath string
	LogLevel   string
	LogOutput  io.Writer
}

func wireApp(opts wireOptions) (*app, error) {
	v, err := config.Load(opts.ConfigPath, config.Defaults{
		IdentityBaseURL: portal.DefaultIdentityBaseURL,
		PortalBaseURL:   portal.DefaultPortalBaseURL,
		Locale:          portal.DefaultLocale,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := config.FromViper(v)
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.New(opts.LogOutput, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	entry := logging.WithRun(logger)

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire line repository: %w", err)
	}

	secretStore, err := newSecretStore(cfg.Secrets)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	api := portal.DefaultAPI()
	api.IdentityBaseURL = cfg.Identity.BaseURL
	api.PortalBaseURL = cfg.Portal.BaseURL
	api.Locale = cfg.Portal.Locale

	return &app{
		cfg:     cfg,
		service: application.NewService(repo, secretStore),
		portal: portal.Client{
			API:        api,
			HTTPClient: http.DefaultClient,
			Timeout:    cfg.HTTP.Timeout,
			Logger:     entry,
		},
		logger:          entry,
		summaryRenderer: summary.Render,
		now:             time.Now,
	}, nil
}

func newSecretStore(cfg config.SecretsConfig) (ports.SecretStore, error) {
	switch backend := strings.ToLower(strings.TrimSpace(cfg.Backend)); backend {
	case "", "auto":
		return chainstore.NewPassFirstWithFileFallback(cfg.Dir)
	case "file":
		return filestore.NewStore(cfg.Dir), nil
	case "pass":
		return passstore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q (auto|pass|file)", cfg.Backend)
	}
}

// usageService builds the pipeline for one run; timeout overrides the
// configured transport timeout when non-zero.
func (a *app) usageService(timeout time.Duration) *application.UsageService {
	client := a.portal
	if timeout > 0 {
		client.Timeout = timeout
	}

	return application.NewUsageService(client, clockFunc(a.now), a.logger)
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time {
	return f()
}
