package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
	"github.com/roandegraaf/ha-mcp/internal/haclient"
)

// componentKind drives the shared get/upsert/delete/reload tool set for the
// config-backed components.
type componentKind struct {
	name     string // singular: automation, script, scene
	plural   string
	validate func(ctx context.Context, d *Deps, cfg map[string]any) *haclient.ValidationResult
}

func componentTools(d *Deps) []Tool {
	kinds := []componentKind{
		{
			name:   "automation",
			plural: "automations",
			validate: func(ctx context.Context, d *Deps, cfg map[string]any) *haclient.ValidationResult {
				res, err := d.Client.ValidateConfig(ctx, cfg["trigger"], cfg["condition"], cfg["action"])
				if err != nil {
					return validationUnavailable(err)
				}
				return res
			},
		},
		{
			name:   "script",
			plural: "scripts",
			validate: func(ctx context.Context, d *Deps, cfg map[string]any) *haclient.ValidationResult {
				res, err := d.Client.ValidateConfig(ctx, nil, nil, cfg["sequence"])
				if err != nil {
					return validationUnavailable(err)
				}
				return res
			},
		},
		{
			name:   "scene",
			plural: "scenes",
		},
	}

	var out []Tool
	for _, kind := range kinds {
		out = append(out, kind.tools(d)...)
	}
	out = append(out, automationTools(d)...)
	return out
}

// automationTools are the automation-only operations on top of the shared
// component set.
func automationTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_toggle_automation",
				mcp.WithDescription("Enable or disable an automation without touching its configuration."),
				mcp.WithString("entity_id", mcp.Required(), mcp.Description("Automation entity id, e.g. automation.morning_lights.")),
				mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("True to enable, false to disable.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				entityID, err := req.RequireString("entity_id")
				if err != nil {
					return nil, err
				}
				enabled, err := req.RequireBool("enabled")
				if err != nil {
					return nil, err
				}
				service := "turn_off"
				label := "disabled"
				if enabled {
					service = "turn_on"
					label = "enabled"
				}
				if _, err := d.Client.CallService(ctx, "automation", service, map[string]any{"entity_id": entityID}); err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(entityID + " " + label), nil
			},
		},
		{
			Def: mcp.NewTool("ha_duplicate_automation",
				mcp.WithDescription("Copy an automation under a new id. The source is left untouched."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Config id of the automation to copy.")),
				mcp.WithString("new_alias", mcp.Description("Alias for the copy; defaults to the source alias plus ' (Copy)'.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				id, err := req.RequireString("id")
				if err != nil {
					return nil, err
				}
				cfg, err := d.Client.GetComponentConfig(ctx, "automation", id)
				if err != nil {
					return nil, err
				}

				alias := req.GetString("new_alias", "")
				if alias == "" {
					source, _ := cfg["alias"].(string)
					if source == "" {
						source = id
					}
					alias = source + " (Copy)"
				}
				cfg["alias"] = alias
				delete(cfg, "id")

				newID := uuid.NewString()
				if err := d.Client.SaveComponentConfig(ctx, "automation", newID, cfg); err != nil {
					return nil, err
				}
				if err := d.Client.Reload(ctx, "automation"); err != nil {
					return nil, err
				}
				return jsonResult(map[string]string{"id": newID, "alias": alias, "result": "duplicated"})
			},
		},
	}
}

// validationUnavailable keeps the preview going when the dry-run itself
// could not be performed: the user still decides, with a warning.
func validationUnavailable(err error) *haclient.ValidationResult {
	return &haclient.ValidationResult{
		Valid:    true,
		Warnings: []string{"server-side validation unavailable: " + err.Error()},
	}
}

func (kind componentKind) tools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_get_"+kind.name,
				mcp.WithDescription(fmt.Sprintf("Get the stored configuration of one %s by its config id.", kind.name)),
				mcp.WithString("id", mcp.Required(), mcp.Description("Config id, found in the entity's id attribute.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				id, err := req.RequireString("id")
				if err != nil {
					return nil, err
				}
				cfg, err := d.Client.GetComponentConfig(ctx, kind.name, id)
				if err != nil {
					return nil, err
				}
				return jsonResult(cfg)
			},
		},
		{
			Def: mcp.NewTool("ha_upsert_"+kind.name,
				mcp.WithDescription(fmt.Sprintf("Create or update a %s. Shows a preview with a validation dry-run and asks for confirmation before saving.", kind.name)),
				mcp.WithString("id", mcp.Description("Config id to update; omit to create a new one.")),
				mcp.WithObject("config", mcp.Required(), mcp.Description("Full component configuration.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				cfg, ok := objectArg(req, "config")
				if !ok {
					return nil, fmt.Errorf("config must be a JSON object")
				}

				id := req.GetString("id", "")
				action := confirm.ActionUpdate
				if id == "" {
					id = uuid.NewString()
					action = confirm.ActionCreate
				} else if _, err := d.Client.GetComponentConfig(ctx, kind.name, id); err != nil {
					var nf *haclient.NotFoundError
					if !errors.As(err, &nf) {
						return nil, err
					}
					action = confirm.ActionCreate
				}

				var validation *haclient.ValidationResult
				if kind.validate != nil {
					validation = kind.validate(ctx, d, cfg)
				}

				preview := confirm.Preview{
					Action:       action,
					ResourceType: kind.name,
					Identifier:   id,
					Config:       cfg,
					Validation:   validation,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveComponentConfig(ctx, kind.name, id, cfg); err != nil {
					return nil, err
				}
				return jsonResult(map[string]string{"id": id, "result": "saved"})
			},
		},
		{
			Def: mcp.NewTool("ha_delete_"+kind.name,
				mcp.WithDescription(fmt.Sprintf("Delete a %s by its config id after confirmation.", kind.name)),
				mcp.WithString("id", mcp.Required(), mcp.Description("Config id to delete.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				id, err := req.RequireString("id")
				if err != nil {
					return nil, err
				}
				// Best effort: show the doomed config in the preview.
				current, err := d.Client.GetComponentConfig(ctx, kind.name, id)
				if err != nil {
					var nf *haclient.NotFoundError
					if errors.As(err, &nf) {
						return nil, err
					}
					current = nil
				}

				preview := confirm.Preview{
					Action:       confirm.ActionDelete,
					ResourceType: kind.name,
					Identifier:   id,
					Config:       current,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.DeleteComponentConfig(ctx, kind.name, id); err != nil {
					return nil, err
				}
				return jsonResult(map[string]string{"id": id, "result": "deleted"})
			},
		},
		{
			Def: mcp.NewTool("ha_reload_"+kind.plural,
				mcp.WithDescription(fmt.Sprintf("Reload all %s from their stored configuration.", kind.plural)),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				if err := d.Client.Reload(ctx, kind.name); err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(kind.plural + " reloaded"), nil
			},
		},
	}
}
