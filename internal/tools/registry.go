// Package tools defines every MCP tool the server exposes and the explicit
// registry that wires them onto the server.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
	"github.com/roandegraaf/ha-mcp/internal/haclient"
	"github.com/roandegraaf/ha-mcp/internal/observe"
)

// Deps is everything a tool needs, injected at construction. No globals.
type Deps struct {
	Client  *haclient.Client
	Confirm *confirm.Orchestrator
	Log     *slog.Logger
}

type Tool struct {
	Def     mcp.Tool
	Handler server.ToolHandlerFunc
}

// Registry holds the full tool set in registration order.
type Registry struct {
	deps  *Deps
	tools []Tool
}

func NewRegistry(deps *Deps) *Registry {
	r := &Registry{deps: deps}
	r.add(stateTools(deps)...)
	r.add(registryTools(deps)...)
	r.add(componentTools(deps)...)
	r.add(helperTools(deps)...)
	r.add(dashboardTools(deps)...)
	r.add(blueprintTools(deps)...)
	r.add(validationTools(deps)...)
	r.add(analysisTools(deps)...)
	return r
}

func (r *Registry) add(ts ...Tool) { r.tools = append(r.tools, ts...) }

// Attach registers every tool, prompt and resource on the MCP server.
func (r *Registry) Attach(s *server.MCPServer) {
	for _, t := range r.tools {
		s.AddTool(t.Def, instrument(t.Def.Name, t.Handler))
	}
	registerPrompts(s)
	registerResources(s, r.deps)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Def.Name
	}
	return names
}

// instrument counts invocations and converts handler errors into tool error
// results so the protocol layer never sees them as transport failures.
func instrument(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := h(ctx, req)
		if err != nil {
			observe.ToolCalls.WithLabelValues(name, "error").Inc()
			return mcp.NewToolResultError(err.Error()), nil
		}
		observe.ToolCalls.WithLabelValues(name, "ok").Inc()
		return res, nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// objectArg pulls a JSON object argument out of the raw argument map.
func objectArg(req mcp.CallToolRequest, name string) (map[string]any, bool) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
