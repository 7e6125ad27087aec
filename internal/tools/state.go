package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
)

func stateTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_get_states",
				mcp.WithDescription("Get the current state of all entities, optionally filtered by domain."),
				mcp.WithString("domain", mcp.Description("Only return entities of this domain, e.g. light or sensor.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				states, err := d.Client.States(ctx)
				if err != nil {
					return nil, err
				}
				if domain := req.GetString("domain", ""); domain != "" {
					filtered := states[:0]
					for _, s := range states {
						if strings.HasPrefix(s.EntityID, domain+".") {
							filtered = append(filtered, s)
						}
					}
					states = filtered
				}
				return jsonResult(states)
			},
		},
		{
			Def: mcp.NewTool("ha_get_state",
				mcp.WithDescription("Get the current state of one entity."),
				mcp.WithString("entity_id", mcp.Required(), mcp.Description("Entity id, e.g. light.kitchen.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				entityID, err := req.RequireString("entity_id")
				if err != nil {
					return nil, err
				}
				st, err := d.Client.State(ctx, entityID)
				if err != nil {
					return nil, err
				}
				return jsonResult(st)
			},
		},
		{
			Def: mcp.NewTool("ha_get_history",
				mcp.WithDescription("Get state history for an entity over a time window."),
				mcp.WithString("entity_id", mcp.Required(), mcp.Description("Entity id to fetch history for.")),
				mcp.WithString("start_time", mcp.Description("ISO 8601 start; defaults to one day ago.")),
				mcp.WithString("end_time", mcp.Description("ISO 8601 end; defaults to now.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				entityID, err := req.RequireString("entity_id")
				if err != nil {
					return nil, err
				}
				raw, err := d.Client.History(ctx, entityID, req.GetString("start_time", ""), req.GetString("end_time", ""))
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(raw)), nil
			},
		},
		{
			Def: mcp.NewTool("ha_get_logbook",
				mcp.WithDescription("Get logbook entries, optionally scoped to one entity and a time window."),
				mcp.WithString("entity_id", mcp.Description("Only entries for this entity.")),
				mcp.WithString("start_time", mcp.Description("ISO 8601 start; defaults to one day ago.")),
				mcp.WithString("end_time", mcp.Description("ISO 8601 end; defaults to now.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				raw, err := d.Client.Logbook(ctx, req.GetString("entity_id", ""),
					req.GetString("start_time", ""), req.GetString("end_time", ""))
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(raw)), nil
			},
		},
		{
			Def: mcp.NewTool("ha_get_error_log",
				mcp.WithDescription("Get the Home Assistant server error log as plain text."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				text, err := d.Client.ErrorLog(ctx)
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(text), nil
			},
		},
		{
			Def: mcp.NewTool("ha_render_template",
				mcp.WithDescription("Render a Jinja2 template server-side and return the result."),
				mcp.WithString("template", mcp.Required(), mcp.Description("Template source, e.g. {{ states('sun.sun') }}.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				tmpl, err := req.RequireString("template")
				if err != nil {
					return nil, err
				}
				text, err := d.Client.RenderTemplate(ctx, tmpl)
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(text), nil
			},
		},
		{
			Def: mcp.NewTool("ha_call_service",
				mcp.WithDescription("Call a Home Assistant service, e.g. light.turn_on. Asks for confirmation before acting."),
				mcp.WithString("domain", mcp.Required(), mcp.Description("Service domain, e.g. light.")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service name, e.g. turn_on.")),
				mcp.WithObject("data", mcp.Description("Service data, including target entity_id.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				domain, err := req.RequireString("domain")
				if err != nil {
					return nil, err
				}
				service, err := req.RequireString("service")
				if err != nil {
					return nil, err
				}
				data, _ := objectArg(req, "data")

				preview := confirm.Preview{
					Action:       confirm.ActionCall,
					ResourceType: "service",
					Identifier:   domain + "." + service,
					Config:       data,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				raw, err := d.Client.CallService(ctx, domain, service, data)
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(raw)), nil
			},
		},
	}
}
