package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/analysis"
)

func analysisTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_analyze_coverage",
				mcp.WithDescription("Summarize how entities are distributed over areas and domains."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				areas, err := d.Client.ListAreas(ctx)
				if err != nil {
					return nil, err
				}
				entities, err := d.Client.ListEntities(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(analysis.Coverage(areas, entities))
			},
		},
		{
			Def: mcp.NewTool("ha_suggest_automations",
				mcp.WithDescription("Propose automations based on the devices present: motion lighting, climate guards, battery alerts and more."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				areas, err := d.Client.ListAreas(ctx)
				if err != nil {
					return nil, err
				}
				entities, err := d.Client.ListEntities(ctx)
				if err != nil {
					return nil, err
				}
				states, err := d.Client.States(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(analysis.Suggest(areas, entities, states))
			},
		},
		{
			Def: mcp.NewTool("ha_suggest_dashboard",
				mcp.WithDescription("Propose a Lovelace dashboard layout from the registered entities, one view per area."),
				mcp.WithString("area_id", mcp.Description("Limit the layout to one area.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				areas, err := d.Client.ListAreas(ctx)
				if err != nil {
					return nil, err
				}
				entities, err := d.Client.ListEntities(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(analysis.SuggestDashboard(areas, entities, req.GetString("area_id", "")))
			},
		},
		{
			Def: mcp.NewTool("ha_detect_conflicts",
				mcp.WithDescription("Find automations that duplicate each other, share triggers, or drive the same entity in opposite directions."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				states, err := d.Client.States(ctx)
				if err != nil {
					return nil, err
				}
				configs := map[string]map[string]any{}
				for _, st := range states {
					if !strings.HasPrefix(st.EntityID, "automation.") {
						continue
					}
					id, ok := st.Attributes["id"].(string)
					if !ok || id == "" {
						continue
					}
					cfg, err := d.Client.GetComponentConfig(ctx, "automation", id)
					if err != nil {
						// Editor-managed automations may lack a stored config.
						d.Log.Debug("skipping automation without readable config",
							"entity_id", st.EntityID, "error", err)
						continue
					}
					configs[id] = cfg
				}
				return jsonResult(analysis.DetectConflicts(configs))
			},
		},
	}
}
