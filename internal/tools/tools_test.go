package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
	"github.com/roandegraaf/ha-mcp/internal/haclient"
)

const testToken = "test-token-1234567890"

// fakeHA serves both transports: the websocket command API and the REST API,
// with enough behavior recorded to assert what the tools actually did.
type fakeHA struct {
	srv *httptest.Server

	mu           sync.Mutex
	wsCommands   []string
	saved        map[string]map[string]any // "component/id" -> config
	deleted      []string
	serviceCalls []string
	dashboard    map[string]any
}

func newFakeHA(t *testing.T) *fakeHA {
	t.Helper()
	f := &fakeHA{
		saved: map[string]map[string]any{},
		dashboard: map[string]any{
			"views": []any{
				map[string]any{"title": "Kitchen", "cards": []any{
					map[string]any{"type": "light", "entity": "light.kitchen"},
				}},
			},
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/websocket", f.handleWS)
	mux.HandleFunc("/api/", f.handleREST)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHA) wsURL() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/websocket"
}

func (f *fakeHA) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.wsCommands...)
}

func (f *fakeHA) handleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	_ = conn.WriteJSON(map[string]string{"type": "auth_required"})
	var auth map[string]any
	if err := conn.ReadJSON(&auth); err != nil {
		return
	}
	if auth["access_token"] != testToken {
		_ = conn.WriteJSON(map[string]string{"type": "auth_invalid"})
		return
	}
	_ = conn.WriteJSON(map[string]string{"type": "auth_ok"})

	for {
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		msgType, _ := frame["type"].(string)
		f.mu.Lock()
		f.wsCommands = append(f.wsCommands, msgType)
		f.mu.Unlock()

		var result any
		switch msgType {
		case "config/entity_registry/list":
			result = []map[string]any{
				{"entity_id": "light.kitchen", "area_id": "kitchen", "platform": "hue"},
				{"entity_id": "binary_sensor.kitchen_motion", "area_id": "kitchen", "platform": "zha"},
				{"entity_id": "sensor.outside_temp", "platform": "zha"},
			}
		case "config/area_registry/list":
			result = []map[string]any{{"area_id": "kitchen", "name": "Kitchen"}}
		case "lovelace/config":
			f.mu.Lock()
			result = f.dashboard
			f.mu.Unlock()
		case "lovelace/config/save":
			f.mu.Lock()
			if cfg, ok := frame["config"].(map[string]any); ok {
				f.dashboard = cfg
			}
			f.mu.Unlock()
		case "validate_config":
			sections := map[string]any{}
			for _, key := range []string{"trigger", "condition", "action"} {
				if _, ok := frame[key]; ok {
					sections[key] = map[string]any{"valid": true}
				}
			}
			result = sections
		default:
			result = nil
		}
		_ = conn.WriteJSON(map[string]any{
			"id":      frame["id"],
			"type":    "result",
			"success": true,
			"result":  result,
		})
	}
}

func (f *fakeHA) handleREST(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/":
		fmt.Fprint(w, `{"message":"API running."}`)
	case path == "/api/states":
		fmt.Fprint(w, `[{"entity_id":"light.kitchen","state":"on","attributes":{}},
			{"entity_id":"automation.morning","state":"on","attributes":{"id":"morning"}},
			{"entity_id":"input_boolean.guest_mode","state":"off","attributes":{}}]`)
	case strings.HasPrefix(path, "/api/states/"):
		entity := strings.TrimPrefix(path, "/api/states/")
		if entity != "light.kitchen" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"entity_id":"light.kitchen","state":"on","attributes":{"brightness":200}}`)
	case strings.HasPrefix(path, "/api/services/"):
		f.mu.Lock()
		f.serviceCalls = append(f.serviceCalls, strings.TrimPrefix(path, "/api/services/"))
		f.mu.Unlock()
		fmt.Fprint(w, `[]`)
	case strings.HasPrefix(path, "/api/config/"):
		rest := strings.TrimPrefix(path, "/api/config/")
		parts := strings.Split(rest, "/")
		if len(parts) != 3 || parts[1] != "config" {
			http.NotFound(w, r)
			return
		}
		key := parts[0] + "/" + parts[2]
		switch r.Method {
		case http.MethodGet:
			f.mu.Lock()
			cfg, ok := f.saved[key]
			f.mu.Unlock()
			if !ok {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(cfg)
		case http.MethodPost:
			var cfg map[string]any
			_ = json.NewDecoder(r.Body).Decode(&cfg)
			f.mu.Lock()
			f.saved[key] = cfg
			f.mu.Unlock()
			fmt.Fprint(w, `{"result":"ok"}`)
		case http.MethodDelete:
			f.mu.Lock()
			f.deleted = append(f.deleted, key)
			delete(f.saved, key)
			f.mu.Unlock()
			fmt.Fprint(w, `{"result":"ok"}`)
		}
	default:
		http.NotFound(w, r)
	}
}

type scriptedSolicitor struct {
	decision confirm.Decision
	mu       sync.Mutex
	calls    int
	lastMsg  string
}

func (s *scriptedSolicitor) Solicit(ctx context.Context, message string) (confirm.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastMsg = message
	return s.decision, nil
}

func newTestRegistry(t *testing.T, f *fakeHA, sol confirm.Solicitor, approveByDefault bool) *Registry {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := haclient.NewClient(f.srv.URL, f.wsURL(), testToken, log)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect to fake HA failed: %v", err)
	}
	t.Cleanup(client.Close)
	return NewRegistry(&Deps{
		Client:  client,
		Confirm: confirm.NewOrchestrator(sol, approveByDefault, log),
		Log:     log,
	})
}

func callTool(t *testing.T, r *Registry, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	for _, tool := range r.tools {
		if tool.Def.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		return tool.Handler(context.Background(), req)
	}
	t.Fatalf("tool %s not registered", name)
	return nil, nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestGetState(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	res, err := callTool(t, r, "ha_get_state", map[string]any{"entity_id": "light.kitchen"})
	if err != nil {
		t.Fatalf("ha_get_state failed: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, `"state": "on"`) {
		t.Fatalf("state missing from result:\n%s", text)
	}
}

func TestListEntitiesDomainFilter(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	res, err := callTool(t, r, "ha_list_entities", map[string]any{"domain": "light"})
	if err != nil {
		t.Fatalf("ha_list_entities failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "light.kitchen") {
		t.Fatalf("expected light.kitchen in result:\n%s", text)
	}
	if strings.Contains(text, "binary_sensor.kitchen_motion") {
		t.Fatalf("domain filter leaked other domains:\n%s", text)
	}
}

func TestUpsertAutomationApproved(t *testing.T) {
	f := newFakeHA(t)
	sol := &scriptedSolicitor{decision: confirm.Approved}
	r := newTestRegistry(t, f, sol, false)

	cfg := map[string]any{
		"alias":   "Morning lights",
		"trigger": []any{map[string]any{"platform": "sun", "event": "sunrise"}},
		"action":  []any{map[string]any{"service": "light.turn_on"}},
	}
	res, err := callTool(t, r, "ha_upsert_automation", map[string]any{"config": cfg})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), `"result": "saved"`) {
		t.Fatal("expected saved result")
	}
	if sol.calls != 1 {
		t.Fatalf("expected one solicitation, got %d", sol.calls)
	}
	if !strings.Contains(sol.lastMsg, "CREATE automation") {
		t.Fatalf("preview wrong:\n%s", sol.lastMsg)
	}
	if !strings.Contains(sol.lastMsg, "Validation: PASSED") {
		t.Fatalf("dry-run verdict missing:\n%s", sol.lastMsg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) != 1 {
		t.Fatalf("expected one saved config, got %d", len(f.saved))
	}
}

func TestUpsertAutomationRejectedWritesNothing(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Rejected}, false)

	_, err := callTool(t, r, "ha_upsert_automation", map[string]any{
		"config": map[string]any{"alias": "Nope"},
	})
	if !errors.Is(err, confirm.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) != 0 {
		t.Fatal("rejected change must not reach Home Assistant")
	}
}

func TestUpsertAutomationBypass(t *testing.T) {
	f := newFakeHA(t)
	sol := &scriptedSolicitor{decision: confirm.Rejected}
	r := newTestRegistry(t, f, sol, false)

	_, err := callTool(t, r, "ha_upsert_automation", map[string]any{
		"config":       map[string]any{"alias": "Forced"},
		"skip_confirm": true,
	})
	if err != nil {
		t.Fatalf("bypass must proceed: %v", err)
	}
	if sol.calls != 0 {
		t.Fatalf("bypass must not solicit, got %d calls", sol.calls)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) != 1 {
		t.Fatal("bypassed change was not saved")
	}
}

func TestCallServiceUnsupportedDeniedByDefault(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Unsupported}, false)

	_, err := callTool(t, r, "ha_call_service", map[string]any{
		"domain":  "light",
		"service": "turn_off",
	})
	if !errors.Is(err, confirm.ErrRejected) {
		t.Fatalf("expected deny-by-default, got %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.serviceCalls) != 0 {
		t.Fatal("denied service call still reached Home Assistant")
	}
}

func TestDeleteHelperRejectedSendsNoCommand(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Rejected}, false)

	_, err := callTool(t, r, "ha_delete_helper", map[string]any{
		"helper_type": "input_boolean",
		"helper_id":   "vacation_mode",
	})
	if !errors.Is(err, confirm.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	for _, cmd := range f.commands() {
		if cmd == "input_boolean/delete" {
			t.Fatal("rejected delete still sent the command")
		}
	}
}

func TestCreateHelperInvalidConfigStillSolicits(t *testing.T) {
	f := newFakeHA(t)
	sol := &scriptedSolicitor{decision: confirm.Rejected}
	r := newTestRegistry(t, f, sol, false)

	// Missing required min/max, so local validation fails; the user still
	// gets the preview and the final say.
	_, err := callTool(t, r, "ha_create_helper", map[string]any{
		"helper_type": "input_number",
		"config":      map[string]any{"name": "Brightness"},
	})
	if !errors.Is(err, confirm.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if sol.calls != 1 {
		t.Fatal("invalid config must still be previewed")
	}
	if !strings.Contains(sol.lastMsg, "Validation: FAILED") {
		t.Fatalf("schema verdict missing:\n%s", sol.lastMsg)
	}
}

func TestRegistryNamesUnique(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	seen := map[string]bool{}
	for _, name := range r.Names() {
		if seen[name] {
			t.Fatalf("duplicate tool name %s", name)
		}
		seen[name] = true
	}
	for _, want := range []string{
		"ha_get_states", "ha_upsert_automation", "ha_delete_scene",
		"ha_create_helper", "ha_update_dashboard", "ha_import_blueprint",
		"ha_validate_config", "ha_detect_conflicts", "ha_add_view",
		"ha_update_card", "ha_toggle_automation", "ha_duplicate_automation",
		"ha_search_entities", "ha_list_helpers", "ha_create_from_blueprint",
		"ha_suggest_dashboard",
	} {
		if !seen[want] {
			t.Fatalf("tool %s missing from registry", want)
		}
	}
}

func TestSolicitorWithoutServerIsUnsupported(t *testing.T) {
	sol := NewElicitSolicitor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	decision, err := sol.Solicit(context.Background(), "Apply this change?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if decision != confirm.Unsupported {
		t.Fatalf("expected Unsupported without a server in context, got %v", decision)
	}
}

func (f *fakeHA) dashboardViews() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	views, _ := f.dashboard["views"].([]any)
	return views
}

func hasCommand(commands []string, want string) bool {
	for _, c := range commands {
		if c == want {
			return true
		}
	}
	return false
}

func TestAddCardApproved(t *testing.T) {
	f := newFakeHA(t)
	sol := &scriptedSolicitor{decision: confirm.Approved}
	r := newTestRegistry(t, f, sol, false)

	res, err := callTool(t, r, "ha_add_card", map[string]any{
		"view_index": 0,
		"card":       map[string]any{"type": "entities", "entities": []any{"input_boolean.guest_mode"}},
	})
	if err != nil {
		t.Fatalf("ha_add_card failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), `"result": "added"`) {
		t.Fatal("expected added result")
	}
	if sol.calls != 1 {
		t.Fatalf("expected one solicitation, got %d", sol.calls)
	}
	views := f.dashboardViews()
	view, _ := views[0].(map[string]any)
	cards, _ := view["cards"].([]any)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards after add, got %d", len(cards))
	}
	if !hasCommand(f.commands(), "lovelace/config/save") {
		t.Fatal("dashboard was never saved")
	}
}

func TestAddViewAtPosition(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	_, err := callTool(t, r, "ha_add_view", map[string]any{
		"view":     map[string]any{"title": "Entry", "cards": []any{}},
		"position": 0,
	})
	if err != nil {
		t.Fatalf("ha_add_view failed: %v", err)
	}
	views := f.dashboardViews()
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	first, _ := views[0].(map[string]any)
	if first["title"] != "Entry" {
		t.Fatalf("expected inserted view first, got %v", first["title"])
	}
}

func TestDeleteViewRejectedSavesNothing(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Rejected}, false)

	_, err := callTool(t, r, "ha_delete_view", map[string]any{"view_index": 0})
	if !errors.Is(err, confirm.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if hasCommand(f.commands(), "lovelace/config/save") {
		t.Fatal("rejected delete still saved the dashboard")
	}
	if len(f.dashboardViews()) != 1 {
		t.Fatal("view count changed after rejection")
	}
}

func TestGetViewOutOfRange(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	_, err := callTool(t, r, "ha_get_view", map[string]any{"view_index": 5})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestUpdateCard(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	_, err := callTool(t, r, "ha_update_card", map[string]any{
		"view_index": 0,
		"card_index": 0,
		"card":       map[string]any{"type": "light", "entity": "light.kitchen", "name": "Kitchen"},
	})
	if err != nil {
		t.Fatalf("ha_update_card failed: %v", err)
	}
	view, _ := f.dashboardViews()[0].(map[string]any)
	cards, _ := view["cards"].([]any)
	card, _ := cards[0].(map[string]any)
	if card["name"] != "Kitchen" {
		t.Fatalf("card was not replaced: %v", card)
	}
}

func TestToggleAutomation(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	res, err := callTool(t, r, "ha_toggle_automation", map[string]any{
		"entity_id": "automation.morning",
		"enabled":   true,
	})
	if err != nil {
		t.Fatalf("ha_toggle_automation failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "enabled") {
		t.Fatal("expected enabled confirmation")
	}
	f.mu.Lock()
	calls := append([]string{}, f.serviceCalls...)
	f.mu.Unlock()
	if !hasCommand(calls, "automation/turn_on") {
		t.Fatalf("expected automation/turn_on service call, got %v", calls)
	}
}

func TestDuplicateAutomation(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	f.mu.Lock()
	f.saved["automation/morning"] = map[string]any{
		"id":      "morning",
		"alias":   "Morning",
		"trigger": []any{map[string]any{"platform": "sun", "event": "sunrise"}},
	}
	f.mu.Unlock()

	res, err := callTool(t, r, "ha_duplicate_automation", map[string]any{"id": "morning"})
	if err != nil {
		t.Fatalf("ha_duplicate_automation failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "Morning (Copy)") {
		t.Fatal("expected the copy alias in the result")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var copyCfg map[string]any
	for key, cfg := range f.saved {
		if key != "automation/morning" && strings.HasPrefix(key, "automation/") {
			copyCfg = cfg
		}
	}
	if copyCfg == nil {
		t.Fatal("no duplicated automation was saved")
	}
	if copyCfg["alias"] != "Morning (Copy)" {
		t.Fatalf("wrong alias on the copy: %v", copyCfg["alias"])
	}
	if _, ok := copyCfg["id"]; ok {
		t.Fatal("the source id leaked into the copy")
	}
	if !hasCommand(f.wsCommands, "call_service") {
		t.Fatal("automations were not reloaded")
	}
}

func TestSearchEntities(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	res, err := callTool(t, r, "ha_search_entities", map[string]any{"query": "motion"})
	if err != nil {
		t.Fatalf("ha_search_entities failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "binary_sensor.kitchen_motion") {
		t.Fatalf("expected the motion sensor in results:\n%s", text)
	}
	if strings.Contains(text, "light.kitchen") {
		t.Fatalf("unrelated entity matched:\n%s", text)
	}
}

func TestListHelpers(t *testing.T) {
	f := newFakeHA(t)
	r := newTestRegistry(t, f, &scriptedSolicitor{decision: confirm.Approved}, false)

	res, err := callTool(t, r, "ha_list_helpers", nil)
	if err != nil {
		t.Fatalf("ha_list_helpers failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "input_boolean.guest_mode") {
		t.Fatalf("expected the helper in results:\n%s", text)
	}
	if strings.Contains(text, "light.kitchen") {
		t.Fatalf("non-helper entity listed:\n%s", text)
	}

	if _, err := callTool(t, r, "ha_list_helpers", map[string]any{"helper_type": "input_bogus"}); err == nil {
		t.Fatal("expected an error for an invalid helper type")
	}
}

func TestCreateFromBlueprintApproved(t *testing.T) {
	f := newFakeHA(t)
	sol := &scriptedSolicitor{decision: confirm.Approved}
	r := newTestRegistry(t, f, sol, false)

	res, err := callTool(t, r, "ha_create_from_blueprint", map[string]any{
		"domain":         "automation",
		"blueprint_path": "homeassistant/motion_light.yaml",
		"inputs": map[string]any{
			"alias":  "Guest Motion",
			"motion": "binary_sensor.kitchen_motion",
		},
	})
	if err != nil {
		t.Fatalf("ha_create_from_blueprint failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "automation.guest_motion") {
		t.Fatal("expected the new entity id in the result")
	}
	if sol.calls != 1 {
		t.Fatalf("expected one solicitation, got %d", sol.calls)
	}

	f.mu.Lock()
	cfg := f.saved["automation/guest_motion"]
	f.mu.Unlock()
	if cfg == nil {
		t.Fatal("blueprint automation was not saved")
	}
	bp, _ := cfg["use_blueprint"].(map[string]any)
	if bp == nil || bp["path"] != "homeassistant/motion_light.yaml" {
		t.Fatalf("wrong blueprint reference: %v", cfg)
	}
	if _, ok := cfg["alias"]; !ok {
		t.Fatal("alias missing from the saved config")
	}
	if !hasCommand(f.commands(), "call_service") {
		t.Fatal("automations were not reloaded")
	}
}

func TestDecisionFromElicitation(t *testing.T) {
	mk := func(action mcp.ElicitationResponseAction, content any) *mcp.ElicitationResult {
		result := &mcp.ElicitationResult{}
		result.Action = action
		result.Content = content
		return result
	}
	cases := []struct {
		name   string
		result *mcp.ElicitationResult
		want   confirm.Decision
	}{
		{"accept with confirm true", mk(mcp.ElicitationResponseActionAccept, map[string]any{"confirm": true}), confirm.Approved},
		{"accept with confirm false", mk(mcp.ElicitationResponseActionAccept, map[string]any{"confirm": false}), confirm.Rejected},
		{"accept with non-object content", mk(mcp.ElicitationResponseActionAccept, "yes"), confirm.Rejected},
		{"decline", mk(mcp.ElicitationResponseActionDecline, nil), confirm.Rejected},
		{"cancel", mk(mcp.ElicitationResponseActionCancel, nil), confirm.Rejected},
	}
	for _, tc := range cases {
		if got := decisionFromElicitation(tc.result); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
