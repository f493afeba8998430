package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const defaultRetryMax = 3

// HTTPLookup asks a package registry for installer info:
// GET <base>/v1/packages/<pkg>/installer -> {"installer":"..."}.
type HTTPLookup struct {
	baseURL string
	client  *retryablehttp.Client
	logger  zerolog.Logger
}

type installerResp struct {
	Installer string `json:"installer"`
}

func NewHTTPLookup(cfg Config, logger zerolog.Logger) *HTTPLookup {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = 5 * time.Second
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = leveledLogger{logger: logger}
	if cfg.RetryMax > 0 {
		client.RetryMax = cfg.RetryMax
	} else {
		client.RetryMax = defaultRetryMax
	}

	return &HTTPLookup{
		baseURL: cfg.URL,
		client:  client,
		logger:  logger,
	}
}

func (h *HTTPLookup) InstallerOf(ctx context.Context, pkg string) (string, bool) {
	name, err := h.fetch(ctx, pkg)
	if err != nil {
		h.logger.Debug().Err(err).Str("package", pkg).Msg("installer lookup failed")
		return "", false
	}
	return name, name != ""
}

func (h *HTTPLookup) fetch(ctx context.Context, pkg string) (string, error) {
	u := h.baseURL + "/v1/packages/" + url.PathEscape(pkg) + "/installer"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var body installerResp
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.Installer, nil
}

type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
