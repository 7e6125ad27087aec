package haclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// ValidHelperTypes are the input helper domains that may be managed over the
// websocket API.
var ValidHelperTypes = []string{
	"input_boolean",
	"input_number",
	"input_text",
	"input_select",
	"input_datetime",
	"input_button",
}

// Client is the facade the tool layer talks to: typed operations over the
// websocket command transport and the REST query transport.
type Client struct {
	socket *Socket
	rest   *Rest
	log    *slog.Logger
}

func NewClient(baseURL, wsURL, token string, log *slog.Logger) *Client {
	return &Client{
		socket: NewSocket(wsURL, token, log),
		rest:   NewRest(baseURL, token, log),
		log:    log,
	}
}

// Connect brings the command transport up, handshake included. The query
// transport is stateless and validates the credential lazily on its first
// call; Ping is available for callers that want an explicit probe.
func (c *Client) Connect(ctx context.Context) error {
	return c.socket.Connect(ctx)
}

// Ping probes the REST API, verifying reachability and the token.
func (c *Client) Ping(ctx context.Context) error {
	return c.rest.Ping(ctx)
}

// Close tears down in reverse dependency order: websocket, then idle REST
// connections. Idempotent.
func (c *Client) Close() {
	c.socket.Close()
	c.rest.http.CloseIdleConnections()
}

func (c *Client) Connected() bool { return c.socket.Connected() }

// SendCommand exposes the raw command transport for callers that need a
// command without a typed wrapper.
func (c *Client) SendCommand(ctx context.Context, msgType string, payload map[string]any) (json.RawMessage, error) {
	return c.socket.SendCommand(ctx, msgType, payload)
}

func commandList[T any](ctx context.Context, c *Client, msgType string) ([]T, error) {
	raw, err := c.socket.SendCommand(ctx, msgType, nil)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", msgType, err)
	}
	return out, nil
}

func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	return commandList[Device](ctx, c, "config/device_registry/list")
}

func (c *Client) ListEntities(ctx context.Context) ([]Entity, error) {
	return commandList[Entity](ctx, c, "config/entity_registry/list")
}

func (c *Client) ListAreas(ctx context.Context) ([]Area, error) {
	return commandList[Area](ctx, c, "config/area_registry/list")
}

func (c *Client) ListFloors(ctx context.Context) ([]Floor, error) {
	return commandList[Floor](ctx, c, "config/floor_registry/list")
}

func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	return commandList[Label](ctx, c, "config/label_registry/list")
}

// ValidateConfig dry-runs automation building blocks server-side. Sections
// left nil are skipped. The per-section verdicts are folded into one result.
func (c *Client) ValidateConfig(ctx context.Context, trigger, condition, action any) (*ValidationResult, error) {
	payload := map[string]any{}
	if trigger != nil {
		payload["trigger"] = trigger
	}
	if condition != nil {
		payload["condition"] = condition
	}
	if action != nil {
		payload["action"] = action
	}
	raw, err := c.socket.SendCommand(ctx, "validate_config", payload)
	if err != nil {
		return nil, err
	}
	var sections map[string]struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("decode validate_config result: %w", err)
	}
	res := &ValidationResult{Valid: true}
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := sections[name]
		if !s.Valid {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", name, s.Error))
		}
	}
	return res, nil
}

// Reload asks a config-driven domain (automation, script, scene) to reload
// its stored configuration via the websocket service call.
func (c *Client) Reload(ctx context.Context, domain string) error {
	_, err := c.socket.SendCommand(ctx, "call_service", map[string]any{
		"domain":  domain,
		"service": "reload",
	})
	return err
}

func (c *Client) ListDashboards(ctx context.Context) ([]Dashboard, error) {
	return commandList[Dashboard](ctx, c, "lovelace/dashboards/list")
}

// DashboardConfig fetches a lovelace config; urlPath empty means the default
// dashboard.
func (c *Client) DashboardConfig(ctx context.Context, urlPath string) (map[string]any, error) {
	payload := map[string]any{}
	if urlPath != "" {
		payload["url_path"] = urlPath
	}
	raw, err := c.socket.SendCommand(ctx, "lovelace/config", payload)
	if err != nil {
		return nil, err
	}
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode dashboard config: %w", err)
	}
	return cfg, nil
}

func (c *Client) SaveDashboardConfig(ctx context.Context, urlPath string, cfg map[string]any) error {
	payload := map[string]any{"config": cfg}
	if urlPath != "" {
		payload["url_path"] = urlPath
	}
	_, err := c.socket.SendCommand(ctx, "lovelace/config/save", payload)
	return err
}

// ListBlueprints returns the blueprints of one domain ("automation" or
// "script"), sorted by blueprint path.
func (c *Client) ListBlueprints(ctx context.Context, domain string) ([]Blueprint, error) {
	raw, err := c.socket.SendCommand(ctx, "blueprint/list", map[string]any{"domain": domain})
	if err != nil {
		return nil, err
	}
	var byPath map[string]struct {
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &byPath); err != nil {
		return nil, fmt.Errorf("decode blueprint list: %w", err)
	}
	out := make([]Blueprint, 0, len(byPath))
	for path, entry := range byPath {
		out = append(out, Blueprint{Path: path, Domain: domain, Metadata: entry.Metadata})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (c *Client) GetBlueprint(ctx context.Context, domain, path string) (map[string]any, error) {
	raw, err := c.socket.SendCommand(ctx, "blueprint/get", map[string]any{
		"domain": domain,
		"path":   path,
	})
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode blueprint: %w", err)
	}
	return out, nil
}

func (c *Client) ImportBlueprint(ctx context.Context, url string) (map[string]any, error) {
	raw, err := c.socket.SendCommand(ctx, "blueprint/import", map[string]any{"url": url})
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode blueprint import: %w", err)
	}
	return out, nil
}

func (c *Client) SaveBlueprint(ctx context.Context, domain, path, yamlSource string) error {
	_, err := c.socket.SendCommand(ctx, "blueprint/save", map[string]any{
		"domain": domain,
		"path":   path,
		"yaml":   yamlSource,
	})
	return err
}

// CreateHelper creates one input helper. helperType must be one of
// ValidHelperTypes; config keys are flattened into the command frame.
func (c *Client) CreateHelper(ctx context.Context, helperType string, cfg map[string]any) (json.RawMessage, error) {
	if err := checkHelperType(helperType); err != nil {
		return nil, err
	}
	return c.socket.SendCommand(ctx, helperType+"/create", cfg)
}

func (c *Client) UpdateHelper(ctx context.Context, helperType, helperID string, cfg map[string]any) (json.RawMessage, error) {
	if err := checkHelperType(helperType); err != nil {
		return nil, err
	}
	payload := make(map[string]any, len(cfg)+1)
	for k, v := range cfg {
		payload[k] = v
	}
	payload[helperType+"_id"] = helperID
	return c.socket.SendCommand(ctx, helperType+"/update", payload)
}

func (c *Client) DeleteHelper(ctx context.Context, helperType, helperID string) error {
	if err := checkHelperType(helperType); err != nil {
		return err
	}
	_, err := c.socket.SendCommand(ctx, helperType+"/delete", map[string]any{
		helperType + "_id": helperID,
	})
	return err
}

func checkHelperType(helperType string) error {
	for _, t := range ValidHelperTypes {
		if t == helperType {
			return nil
		}
	}
	return &ValidationError{Body: fmt.Sprintf("unknown helper type %q, expected one of %s",
		helperType, strings.Join(ValidHelperTypes, ", "))}
}

// REST passthroughs.

func (c *Client) States(ctx context.Context) ([]State, error) { return c.rest.States(ctx) }

func (c *Client) State(ctx context.Context, entityID string) (*State, error) {
	return c.rest.State(ctx, entityID)
}

func (c *Client) History(ctx context.Context, entityID, start, end string) (json.RawMessage, error) {
	return c.rest.History(ctx, entityID, start, end)
}

func (c *Client) Logbook(ctx context.Context, entityID, start, end string) (json.RawMessage, error) {
	return c.rest.Logbook(ctx, entityID, start, end)
}

func (c *Client) ErrorLog(ctx context.Context) (string, error) { return c.rest.ErrorLog(ctx) }

func (c *Client) RenderTemplate(ctx context.Context, template string) (string, error) {
	return c.rest.RenderTemplate(ctx, template)
}

func (c *Client) CheckCoreConfig(ctx context.Context) (*CoreConfigCheck, error) {
	return c.rest.CheckCoreConfig(ctx)
}

func (c *Client) GetComponentConfig(ctx context.Context, component, id string) (map[string]any, error) {
	return c.rest.GetComponentConfig(ctx, component, id)
}

func (c *Client) SaveComponentConfig(ctx context.Context, component, id string, cfg map[string]any) error {
	return c.rest.SaveComponentConfig(ctx, component, id, cfg)
}

func (c *Client) DeleteComponentConfig(ctx context.Context, component, id string) error {
	return c.rest.DeleteComponentConfig(ctx, component, id)
}

func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) (json.RawMessage, error) {
	return c.rest.CallService(ctx, domain, service, data)
}
