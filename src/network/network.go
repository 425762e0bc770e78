package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plug-explorer/src/helpers"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
)

type AsyncNetworkManager struct {
	Config  *models.MConfig
	BaseURL *url.URL
	Client  *http.Client
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) (*AsyncNetworkManager, error) {
	base, err := url.Parse(cfg.Network.BaseURL)
	if err != nil {
		return nil, helpers.NewConfigurationError("invalid network base_url", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("network base_url %q needs scheme and host", cfg.Network.BaseURL), nil)
	}

	nm := &AsyncNetworkManager{
		Config:  cfg,
		BaseURL: base,
		Logger:  log,
	}
	nm.Client = nm.createClient()
	return nm, nil
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	client := &http.Client{}
	// Zero keeps the backend's historical behaviour of no request timeout.
	if nm.Config.Network.RequestTimeout > 0 {
		client.Timeout = time.Duration(nm.Config.Network.RequestTimeout) * time.Second
	}
	return client
}

// -----------------------------------------------------------------------------

// Resolve joins path onto the base URL and adds params.
func (nm *AsyncNetworkManager) Resolve(path string, params map[string]string) string {
	u := *nm.BaseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")

	q := u.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// -----------------------------------------------------------------------------

// Get performs a single GET request; failures are reported, never retried.
func (nm *AsyncNetworkManager) Get(ctx context.Context, path string, params map[string]string) models.MResult {
	finalUrl := nm.Resolve(path, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
	if err != nil {
		return models.NetworkFailure(helpers.NewNetworkError("build request "+path, err))
	}
	req.Header.Set("Accept", "application/json")
	if ua := nm.Config.Network.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := nm.Client.Do(req)
	if err != nil {
		nm.Logger.Debug("Request %s failed: %v", path, err)
		return models.NetworkFailure(helpers.NewNetworkError("GET "+path, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NetworkFailure(helpers.NewNetworkError("read body "+path, err))
	}

	if resp.StatusCode != http.StatusOK {
		nm.Logger.Debug("Bad status %d for %s", resp.StatusCode, path)
		return models.HTTPError(resp.StatusCode)
	}

	return UnwrapEnvelope(resp.StatusCode, body)
}

// -----------------------------------------------------------------------------

// UnwrapEnvelope accepts both {status, data} and {success, data} wrappers. A body
// that is not such a wrapper is the payload itself.
func UnwrapEnvelope(status int, body []byte) models.MResult {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.Ok(status, trimmed)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return models.Ok(status, trimmed)
	}

	data, hasData := envelope["data"]
	rawSuccess, hasSuccess := envelope["success"]
	rawStatus, hasStatus := envelope["status"]
	if !hasData || (!hasSuccess && !hasStatus) {
		return models.Ok(status, trimmed)
	}

	if hasSuccess {
		var success bool
		if err := json.Unmarshal(rawSuccess, &success); err != nil || !success {
			return models.MResult{Kind: models.ResultHTTPError, Status: status, Err: fmt.Errorf("envelope reported failure")}
		}
	}
	if hasStatus {
		var code int
		if err := json.Unmarshal(rawStatus, &code); err != nil {
			return models.MResult{Kind: models.ResultHTTPError, Status: status, Err: fmt.Errorf("envelope status %s is not a number", rawStatus)}
		}
		if code != http.StatusOK {
			return models.HTTPError(code)
		}
	}

	return models.Ok(status, data)
}
