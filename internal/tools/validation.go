package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/yamlutil"
)

func validationTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_validate_config",
				mcp.WithDescription("Dry-run automation building blocks (trigger, condition, action) server-side without saving anything."),
				mcp.WithObject("trigger", mcp.Description("Trigger block to validate.")),
				mcp.WithObject("condition", mcp.Description("Condition block to validate.")),
				mcp.WithObject("action", mcp.Description("Action block to validate.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				trigger, condition, action := args["trigger"], args["condition"], args["action"]
				if trigger == nil && condition == nil && action == nil {
					return nil, fmt.Errorf("provide at least one of trigger, condition, action")
				}
				res, err := d.Client.ValidateConfig(ctx, trigger, condition, action)
				if err != nil {
					return nil, err
				}
				return jsonResult(res)
			},
		},
		{
			Def: mcp.NewTool("ha_check_core_config",
				mcp.WithDescription("Run Home Assistant's core configuration check."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				check, err := d.Client.CheckCoreConfig(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(check)
			},
		},
		{
			Def: mcp.NewTool("ha_validate_yaml",
				mcp.WithDescription("Check a YAML document for syntax errors locally."),
				mcp.WithString("yaml", mcp.Required(), mcp.Description("YAML source to check.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				source, err := req.RequireString("yaml")
				if err != nil {
					return nil, err
				}
				if err := yamlutil.ValidateSyntax(source); err != nil {
					return jsonResult(map[string]any{"valid": false, "error": err.Error()})
				}
				return jsonResult(map[string]any{"valid": true})
			},
		},
		{
			Def: mcp.NewTool("ha_diff_config",
				mcp.WithDescription("Show a unified diff between a stored component config and a proposed replacement."),
				mcp.WithString("component", mcp.Required(), mcp.Description("automation, script or scene.")),
				mcp.WithString("id", mcp.Required(), mcp.Description("Config id of the stored component.")),
				mcp.WithObject("proposed", mcp.Required(), mcp.Description("Proposed new configuration.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				component, err := req.RequireString("component")
				if err != nil {
					return nil, err
				}
				id, err := req.RequireString("id")
				if err != nil {
					return nil, err
				}
				proposed, ok := objectArg(req, "proposed")
				if !ok {
					return nil, fmt.Errorf("proposed must be a JSON object")
				}
				current, err := d.Client.GetComponentConfig(ctx, component, id)
				if err != nil {
					return nil, err
				}
				diff, err := yamlutil.Diff(current, proposed)
				if err != nil {
					return nil, err
				}
				if diff == "" {
					return mcp.NewToolResultText("no changes"), nil
				}
				return mcp.NewToolResultText("```diff\n" + diff + "```"), nil
			},
		},
	}
}
