package tools

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
	"github.com/roandegraaf/ha-mcp/internal/haclient"
	"github.com/roandegraaf/ha-mcp/internal/schema"
)

func helperTools(d *Deps) []Tool {
	typeDesc := "Helper type: " + strings.Join(haclient.ValidHelperTypes, ", ") + "."
	return []Tool{
		{
			Def: mcp.NewTool("ha_list_helpers",
				mcp.WithDescription("List input helper entities with their current states."),
				mcp.WithString("helper_type", mcp.Description("Only helpers of this type; omit for all input helpers.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				helperType := req.GetString("helper_type", "")
				wanted := haclient.ValidHelperTypes
				if helperType != "" {
					if !slices.Contains(haclient.ValidHelperTypes, helperType) {
						return nil, fmt.Errorf("invalid helper_type %q, must be one of %s",
							helperType, strings.Join(haclient.ValidHelperTypes, ", "))
					}
					wanted = []string{helperType}
				}
				states, err := d.Client.States(ctx)
				if err != nil {
					return nil, err
				}
				helpers := make([]haclient.State, 0)
				for _, st := range states {
					for _, ht := range wanted {
						if strings.HasPrefix(st.EntityID, ht+".") {
							helpers = append(helpers, st)
							break
						}
					}
				}
				return jsonResult(helpers)
			},
		},
		{
			Def: mcp.NewTool("ha_create_helper",
				mcp.WithDescription("Create an input helper (input_boolean, input_number, ...) after confirmation."),
				mcp.WithString("helper_type", mcp.Required(), mcp.Description(typeDesc)),
				mcp.WithObject("config", mcp.Required(), mcp.Description("Helper configuration; name is required.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				helperType, err := req.RequireString("helper_type")
				if err != nil {
					return nil, err
				}
				cfg, ok := objectArg(req, "config")
				if !ok {
					return nil, fmt.Errorf("config must be a JSON object")
				}
				validation, err := schema.ValidateHelper(helperType, cfg)
				if err != nil {
					return nil, err
				}

				preview := confirm.Preview{
					Action:       confirm.ActionCreate,
					ResourceType: helperType,
					Identifier:   helperName(cfg, helperType),
					Config:       cfg,
					Validation:   validation,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				raw, err := d.Client.CreateHelper(ctx, helperType, cfg)
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(raw)), nil
			},
		},
		{
			Def: mcp.NewTool("ha_update_helper",
				mcp.WithDescription("Update an input helper after confirmation."),
				mcp.WithString("helper_type", mcp.Required(), mcp.Description(typeDesc)),
				mcp.WithString("helper_id", mcp.Required(), mcp.Description("Id of the helper to update.")),
				mcp.WithObject("config", mcp.Required(), mcp.Description("Fields to change.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				helperType, err := req.RequireString("helper_type")
				if err != nil {
					return nil, err
				}
				helperID, err := req.RequireString("helper_id")
				if err != nil {
					return nil, err
				}
				cfg, ok := objectArg(req, "config")
				if !ok {
					return nil, fmt.Errorf("config must be a JSON object")
				}

				preview := confirm.Preview{
					Action:       confirm.ActionUpdate,
					ResourceType: helperType,
					Identifier:   helperID,
					Config:       cfg,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				raw, err := d.Client.UpdateHelper(ctx, helperType, helperID, cfg)
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(raw)), nil
			},
		},
		{
			Def: mcp.NewTool("ha_delete_helper",
				mcp.WithDescription("Delete an input helper after confirmation."),
				mcp.WithString("helper_type", mcp.Required(), mcp.Description(typeDesc)),
				mcp.WithString("helper_id", mcp.Required(), mcp.Description("Id of the helper to delete.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				helperType, err := req.RequireString("helper_type")
				if err != nil {
					return nil, err
				}
				helperID, err := req.RequireString("helper_id")
				if err != nil {
					return nil, err
				}

				preview := confirm.Preview{
					Action:       confirm.ActionDelete,
					ResourceType: helperType,
					Identifier:   helperID,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.DeleteHelper(ctx, helperType, helperID); err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(helperType + " " + helperID + " deleted"), nil
			},
		},
	}
}

func helperName(cfg map[string]any, fallback string) string {
	if name, ok := cfg["name"].(string); ok && name != "" {
		return name
	}
	return fallback
}
