package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/haclient"
)

// registryTools expose the Home Assistant registries: devices, entities,
// areas, floors, labels.
func registryTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_list_devices",
				mcp.WithDescription("List all registered devices."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				devices, err := d.Client.ListDevices(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(devices)
			},
		},
		{
			Def: mcp.NewTool("ha_list_entities",
				mcp.WithDescription("List registered entities, optionally filtered by domain or area."),
				mcp.WithString("domain", mcp.Description("Only entities of this domain.")),
				mcp.WithString("area_id", mcp.Description("Only entities assigned to this area.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				entities, err := d.Client.ListEntities(ctx)
				if err != nil {
					return nil, err
				}
				domain := req.GetString("domain", "")
				areaID := req.GetString("area_id", "")
				if domain != "" || areaID != "" {
					filtered := make([]haclient.Entity, 0, len(entities))
					for _, e := range entities {
						if domain != "" && !hasDomain(e.EntityID, domain) {
							continue
						}
						if areaID != "" && e.AreaID != areaID {
							continue
						}
						filtered = append(filtered, e)
					}
					entities = filtered
				}
				return jsonResult(entities)
			},
		},
		{
			Def: mcp.NewTool("ha_search_entities",
				mcp.WithDescription("Search entities by case-insensitive substring match on id and names."),
				mcp.WithString("query", mcp.Required(), mcp.Description("Search string matched against entity_id, name and original_name.")),
				mcp.WithString("domain", mcp.Description("Restrict the search to one domain.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				query, err := req.RequireString("query")
				if err != nil {
					return nil, err
				}
				entities, err := d.Client.ListEntities(ctx)
				if err != nil {
					return nil, err
				}
				domain := req.GetString("domain", "")
				query = strings.ToLower(query)
				matches := make([]haclient.Entity, 0)
				for _, e := range entities {
					if domain != "" && !hasDomain(e.EntityID, domain) {
						continue
					}
					if strings.Contains(strings.ToLower(e.EntityID), query) ||
						strings.Contains(strings.ToLower(e.Name), query) ||
						strings.Contains(strings.ToLower(e.OriginalName), query) {
						matches = append(matches, e)
					}
				}
				return jsonResult(matches)
			},
		},
		{
			Def: mcp.NewTool("ha_get_entity_details",
				mcp.WithDescription("Get one entity's registry entry combined with its live state."),
				mcp.WithString("entity_id", mcp.Required(), mcp.Description("Entity id to look up.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				entityID, err := req.RequireString("entity_id")
				if err != nil {
					return nil, err
				}
				entities, err := d.Client.ListEntities(ctx)
				if err != nil {
					return nil, err
				}
				var registry *haclient.Entity
				for i := range entities {
					if entities[i].EntityID == entityID {
						registry = &entities[i]
						break
					}
				}
				state, err := d.Client.State(ctx, entityID)
				if err != nil {
					var nf *haclient.NotFoundError
					if !errors.As(err, &nf) {
						return nil, err
					}
					// Registered but never reported a state.
					state = nil
				}
				if registry == nil && state == nil {
					return nil, &haclient.NotFoundError{Resource: entityID}
				}
				return jsonResult(map[string]any{
					"entity_id": entityID,
					"registry":  registry,
					"state":     state,
				})
			},
		},
		{
			Def: mcp.NewTool("ha_list_areas",
				mcp.WithDescription("List all areas."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				areas, err := d.Client.ListAreas(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(areas)
			},
		},
		{
			Def: mcp.NewTool("ha_list_floors",
				mcp.WithDescription("List all floors."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				floors, err := d.Client.ListFloors(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(floors)
			},
		},
		{
			Def: mcp.NewTool("ha_list_labels",
				mcp.WithDescription("List all labels."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				labels, err := d.Client.ListLabels(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(labels)
			},
		},
	}
}

func hasDomain(entityID, domain string) bool {
	return len(entityID) > len(domain) &&
		entityID[:len(domain)] == domain && entityID[len(domain)] == '.'
}
