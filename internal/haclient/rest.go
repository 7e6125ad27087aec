package haclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roandegraaf/ha-mcp/internal/logging"
	"github.com/roandegraaf/ha-mcp/internal/observe"
)

// maxInflight bounds concurrent REST requests against Home Assistant.
const maxInflight = 5

// Rest is the stateless query transport: one HTTP request per call, Bearer
// token auth, typed error mapping by status code.
type Rest struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
	sem     chan struct{}
}

func NewRest(baseURL, token string, log *slog.Logger) *Rest {
	return &Rest{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
		sem:     make(chan struct{}, maxInflight),
	}
}

// do performs one request and maps the response status onto the error
// taxonomy: 401/403 auth, 404 not found, 400/422 validation, transport
// failures connection.
func (r *Rest) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-r.sem }()

	u := r.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		observe.RESTRequests.WithLabelValues(method, "error").Inc()
		return nil, &ConnectionError{Op: method + " " + path,
			Err: fmt.Errorf("%s", logging.MaskBearer(logging.MaskSecret(err.Error(), r.token)))}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Op: method + " " + path, Err: err}
	}
	observe.RESTRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	r.log.Debug("rest request", "method", method, "path", path, "status", resp.StatusCode)

	// Error bodies may echo request details through proxies; scrub any
	// credential before they reach logs or tool output.
	errBody := logging.MaskBearer(strings.TrimSpace(string(raw)))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Message: errBody}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Resource: path}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, &ValidationError{Body: errBody}
	default:
		return nil, &httpStatusError{status: resp.StatusCode, body: errBody}
	}
}

// Ping probes GET /api/ to verify reachability and the token.
func (r *Rest) Ping(ctx context.Context) error {
	_, err := r.do(ctx, http.MethodGet, "/api/", nil, nil)
	return err
}

func (r *Rest) States(ctx context.Context) ([]State, error) {
	raw, err := r.do(ctx, http.MethodGet, "/api/states", nil, nil)
	if err != nil {
		return nil, err
	}
	var states []State
	if err := json.Unmarshal(raw, &states); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}
	return states, nil
}

func (r *Rest) State(ctx context.Context, entityID string) (*State, error) {
	raw, err := r.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil, nil)
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

// History fetches /api/history/period. start may be empty (server default of
// one day back); end and entityID are optional filters.
func (r *Rest) History(ctx context.Context, entityID, start, end string) (json.RawMessage, error) {
	path := "/api/history/period"
	if start != "" {
		path += "/" + url.PathEscape(start)
	}
	q := url.Values{}
	if entityID != "" {
		q.Set("filter_entity_id", entityID)
	}
	if end != "" {
		q.Set("end_time", end)
	}
	return r.do(ctx, http.MethodGet, path, q, nil)
}

func (r *Rest) Logbook(ctx context.Context, entityID, start, end string) (json.RawMessage, error) {
	path := "/api/logbook"
	if start != "" {
		path += "/" + url.PathEscape(start)
	}
	q := url.Values{}
	if entityID != "" {
		q.Set("entity", entityID)
	}
	if end != "" {
		q.Set("end_time", end)
	}
	return r.do(ctx, http.MethodGet, path, q, nil)
}

// ErrorLog returns the raw server log as plain text.
func (r *Rest) ErrorLog(ctx context.Context) (string, error) {
	raw, err := r.do(ctx, http.MethodGet, "/api/error_log", nil, nil)
	return string(raw), err
}

// RenderTemplate evaluates a Jinja2 template server-side and returns the
// rendered text.
func (r *Rest) RenderTemplate(ctx context.Context, template string) (string, error) {
	raw, err := r.do(ctx, http.MethodPost, "/api/template", nil, map[string]string{"template": template})
	return string(raw), err
}

// CoreConfigCheck is the result of POST /api/config/core/check_config.
type CoreConfigCheck struct {
	Result string `json:"result"`
	Errors string `json:"errors,omitempty"`
}

func (r *Rest) CheckCoreConfig(ctx context.Context) (*CoreConfigCheck, error) {
	raw, err := r.do(ctx, http.MethodPost, "/api/config/core/check_config", nil, nil)
	if err != nil {
		return nil, err
	}
	var check CoreConfigCheck
	if err := json.Unmarshal(raw, &check); err != nil {
		return nil, fmt.Errorf("decode check_config: %w", err)
	}
	return &check, nil
}

// GetComponentConfig reads the stored config of one automation, script or
// scene by its config id.
func (r *Rest) GetComponentConfig(ctx context.Context, component, id string) (map[string]any, error) {
	raw, err := r.do(ctx, http.MethodGet, componentPath(component, id), nil, nil)
	if err != nil {
		return nil, err
	}
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", component, err)
	}
	return cfg, nil
}

func (r *Rest) SaveComponentConfig(ctx context.Context, component, id string, cfg map[string]any) error {
	_, err := r.do(ctx, http.MethodPost, componentPath(component, id), nil, cfg)
	return err
}

func (r *Rest) DeleteComponentConfig(ctx context.Context, component, id string) error {
	_, err := r.do(ctx, http.MethodDelete, componentPath(component, id), nil, nil)
	return err
}

// CallService invokes a Home Assistant service; the response lists the
// states that changed as a result.
func (r *Rest) CallService(ctx context.Context, domain, service string, data map[string]any) (json.RawMessage, error) {
	if data == nil {
		data = map[string]any{}
	}
	path := "/api/services/" + url.PathEscape(domain) + "/" + url.PathEscape(service)
	return r.do(ctx, http.MethodPost, path, nil, data)
}

func componentPath(component, id string) string {
	return "/api/config/" + url.PathEscape(component) + "/config/" + url.PathEscape(id)
}
