package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
	"github.com/roandegraaf/ha-mcp/internal/haclient"
	"github.com/roandegraaf/ha-mcp/internal/yamlutil"
)

func blueprintTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_list_blueprints",
				mcp.WithDescription("List installed blueprints for a domain."),
				mcp.WithString("domain", mcp.Description("Blueprint domain, automation or script. Defaults to automation.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				blueprints, err := d.Client.ListBlueprints(ctx, req.GetString("domain", "automation"))
				if err != nil {
					return nil, err
				}
				return jsonResult(blueprints)
			},
		},
		{
			Def: mcp.NewTool("ha_get_blueprint",
				mcp.WithDescription("Get one blueprint by domain and path."),
				mcp.WithString("domain", mcp.Required(), mcp.Description("Blueprint domain, automation or script.")),
				mcp.WithString("path", mcp.Required(), mcp.Description("Blueprint path, e.g. motion_light.yaml.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				domain, err := req.RequireString("domain")
				if err != nil {
					return nil, err
				}
				path, err := req.RequireString("path")
				if err != nil {
					return nil, err
				}
				bp, err := d.Client.GetBlueprint(ctx, domain, path)
				if err != nil {
					return nil, err
				}
				return jsonResult(bp)
			},
		},
		{
			Def: mcp.NewTool("ha_import_blueprint",
				mcp.WithDescription("Import a blueprint from a URL after confirmation."),
				mcp.WithString("url", mcp.Required(), mcp.Description("Source URL, e.g. a community forum or GitHub link.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				url, err := req.RequireString("url")
				if err != nil {
					return nil, err
				}
				preview := confirm.Preview{
					Action:       confirm.ActionImport,
					ResourceType: "blueprint",
					Identifier:   url,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				result, err := d.Client.ImportBlueprint(ctx, url)
				if err != nil {
					return nil, err
				}
				return jsonResult(result)
			},
		},
		{
			Def: mcp.NewTool("ha_save_blueprint",
				mcp.WithDescription("Save blueprint YAML under a domain and path after confirmation."),
				mcp.WithString("domain", mcp.Required(), mcp.Description("Blueprint domain, automation or script.")),
				mcp.WithString("path", mcp.Required(), mcp.Description("Target path, e.g. my_blueprint.yaml.")),
				mcp.WithString("yaml", mcp.Required(), mcp.Description("Blueprint YAML source.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				domain, err := req.RequireString("domain")
				if err != nil {
					return nil, err
				}
				path, err := req.RequireString("path")
				if err != nil {
					return nil, err
				}
				source, err := req.RequireString("yaml")
				if err != nil {
					return nil, err
				}

				validation := &haclient.ValidationResult{Valid: true}
				if err := yamlutil.ValidateSyntax(source); err != nil {
					validation = &haclient.ValidationResult{
						Valid:  false,
						Errors: []string{err.Error()},
					}
				}

				preview := confirm.Preview{
					Action:       confirm.ActionCreate,
					ResourceType: "blueprint",
					Identifier:   domain + "/" + path,
					Config:       source,
					Validation:   validation,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveBlueprint(ctx, domain, path, source); err != nil {
					return nil, err
				}
				return mcp.NewToolResultText("blueprint " + domain + "/" + path + " saved"), nil
			},
		},
		{
			Def: mcp.NewTool("ha_create_from_blueprint",
				mcp.WithDescription("Create an automation or script from an installed blueprint after confirmation."),
				mcp.WithString("domain", mcp.Required(), mcp.Description("Target domain, automation or script.")),
				mcp.WithString("blueprint_path", mcp.Required(), mcp.Description("Blueprint path as listed by ha_list_blueprints.")),
				mcp.WithObject("inputs", mcp.Required(), mcp.Description("Blueprint input values; alias and description keys set the entity's name.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				domain, err := req.RequireString("domain")
				if err != nil {
					return nil, err
				}
				if domain != "automation" && domain != "script" {
					return nil, fmt.Errorf("invalid domain %q, must be automation or script", domain)
				}
				path, err := req.RequireString("blueprint_path")
				if err != nil {
					return nil, err
				}
				inputs, ok := objectArg(req, "inputs")
				if !ok {
					return nil, fmt.Errorf("inputs must be a JSON object")
				}

				alias, _ := inputs["alias"].(string)
				description, _ := inputs["description"].(string)
				delete(inputs, "alias")
				delete(inputs, "description")

				cfg := map[string]any{
					"use_blueprint": map[string]any{
						"path":  path,
						"input": inputs,
					},
				}
				if alias != "" {
					cfg["alias"] = alias
				}
				if description != "" {
					cfg["description"] = description
				}

				identifier := alias
				if identifier == "" {
					identifier = domain + "/" + path
				}
				preview := confirm.Preview{
					Action:       confirm.ActionCreate,
					ResourceType: domain + " (from blueprint)",
					Identifier:   identifier,
					Config:       cfg,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}

				id := entitySlug(alias)
				if err := d.Client.SaveComponentConfig(ctx, domain, id, cfg); err != nil {
					return nil, err
				}
				if err := d.Client.Reload(ctx, domain); err != nil {
					return nil, err
				}
				return jsonResult(map[string]string{
					"id":        id,
					"entity_id": domain + "." + id,
					"result":    "created",
				})
			},
		},
	}
}

// entitySlug derives a config id from an alias; without a usable alias a
// fresh uuid is used instead.
func entitySlug(alias string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(alias) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	slug := b.String()
	if slug == "" {
		return uuid.NewString()
	}
	if slug[0] < 'a' || slug[0] > 'z' {
		slug = "bp_" + slug
	}
	return slug
}
