package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
)

func dashboardTools(d *Deps) []Tool {
	return []Tool{
		{
			Def: mcp.NewTool("ha_list_dashboards",
				mcp.WithDescription("List all Lovelace dashboards."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				dashboards, err := d.Client.ListDashboards(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResult(dashboards)
			},
		},
		{
			Def: mcp.NewTool("ha_get_dashboard",
				mcp.WithDescription("Get the full configuration of a dashboard."),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				cfg, err := d.Client.DashboardConfig(ctx, req.GetString("url_path", ""))
				if err != nil {
					return nil, err
				}
				return jsonResult(cfg)
			},
		},
		{
			Def: mcp.NewTool("ha_update_dashboard",
				mcp.WithDescription("Replace a dashboard configuration after confirmation."),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
				mcp.WithObject("config", mcp.Required(), mcp.Description("Complete new dashboard configuration.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				cfg, ok := objectArg(req, "config")
				if !ok {
					return nil, fmt.Errorf("config must be a JSON object")
				}
				urlPath := req.GetString("url_path", "")
				identifier := urlPath
				if identifier == "" {
					identifier = "default"
				}

				preview := confirm.Preview{
					Action:       confirm.ActionUpdate,
					ResourceType: "dashboard",
					Identifier:   identifier,
					Config:       cfg,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveDashboardConfig(ctx, urlPath, cfg); err != nil {
					return nil, err
				}
				return mcp.NewToolResultText("dashboard " + identifier + " saved"), nil
			},
		},
		{
			Def: mcp.NewTool("ha_get_view",
				mcp.WithDescription("Get one view of a dashboard by its zero-based index."),
				mcp.WithNumber("view_index", mcp.Required(), mcp.Description("Zero-based index of the view.")),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index, err := req.RequireInt("view_index")
				if err != nil {
					return nil, err
				}
				_, views, err := loadViews(ctx, d, req.GetString("url_path", ""))
				if err != nil {
					return nil, err
				}
				if index < 0 || index >= len(views) {
					return nil, viewRangeError(index, len(views))
				}
				return jsonResult(views[index])
			},
		},
		{
			Def: mcp.NewTool("ha_add_view",
				mcp.WithDescription("Add a view to a dashboard after confirmation."),
				mcp.WithObject("view", mcp.Required(), mcp.Description("View configuration, e.g. {\"title\": \"Kitchen\", \"cards\": [...]}.")),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
				mcp.WithNumber("position", mcp.Description("Zero-based insertion index; omit to append.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				view, ok := objectArg(req, "view")
				if !ok {
					return nil, fmt.Errorf("view must be a JSON object")
				}
				urlPath := req.GetString("url_path", "")
				cfg, views, err := loadViews(ctx, d, urlPath)
				if err != nil {
					return nil, err
				}

				position := req.GetInt("position", len(views))
				if position < 0 || position > len(views) {
					return nil, fmt.Errorf("position %d out of range, valid range is 0-%d", position, len(views))
				}
				views = append(views[:position], append([]any{view}, views[position:]...)...)
				cfg["views"] = views

				preview := confirm.Preview{
					Action:       confirm.ActionCreate,
					ResourceType: "dashboard view",
					Identifier:   dashboardName(urlPath) + " - " + viewTitle(view),
					Config:       view,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveDashboardConfig(ctx, urlPath, cfg); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{
					"result":      "added",
					"view_title":  viewTitle(view),
					"view_index":  position,
					"total_views": len(views),
				})
			},
		},
		{
			Def: mcp.NewTool("ha_update_view",
				mcp.WithDescription("Replace a view of a dashboard after confirmation."),
				mcp.WithNumber("view_index", mcp.Required(), mcp.Description("Zero-based index of the view to replace.")),
				mcp.WithObject("view", mcp.Required(), mcp.Description("New view configuration.")),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index, err := req.RequireInt("view_index")
				if err != nil {
					return nil, err
				}
				view, ok := objectArg(req, "view")
				if !ok {
					return nil, fmt.Errorf("view must be a JSON object")
				}
				urlPath := req.GetString("url_path", "")
				cfg, views, err := loadViews(ctx, d, urlPath)
				if err != nil {
					return nil, err
				}
				if index < 0 || index >= len(views) {
					return nil, viewRangeError(index, len(views))
				}
				views[index] = view
				cfg["views"] = views

				preview := confirm.Preview{
					Action:       confirm.ActionUpdate,
					ResourceType: "dashboard view",
					Identifier:   fmt.Sprintf("%s - view[%d]", dashboardName(urlPath), index),
					Config:       view,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveDashboardConfig(ctx, urlPath, cfg); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{
					"result":     "updated",
					"view_index": index,
					"view_title": viewTitle(view),
				})
			},
		},
		{
			Def: mcp.NewTool("ha_delete_view",
				mcp.WithDescription("Delete a view from a dashboard after confirmation."),
				mcp.WithNumber("view_index", mcp.Required(), mcp.Description("Zero-based index of the view to delete.")),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index, err := req.RequireInt("view_index")
				if err != nil {
					return nil, err
				}
				urlPath := req.GetString("url_path", "")
				cfg, views, err := loadViews(ctx, d, urlPath)
				if err != nil {
					return nil, err
				}
				if index < 0 || index >= len(views) {
					return nil, viewRangeError(index, len(views))
				}
				removed := views[index]
				cfg["views"] = append(views[:index], views[index+1:]...)

				preview := confirm.Preview{
					Action:       confirm.ActionDelete,
					ResourceType: "dashboard view",
					Identifier:   dashboardName(urlPath) + " - " + viewTitle(removed),
					Config:       removed,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveDashboardConfig(ctx, urlPath, cfg); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{
					"result":          "deleted",
					"deleted_view":    viewTitle(removed),
					"remaining_views": len(views) - 1,
				})
			},
		},
		{
			Def: mcp.NewTool("ha_add_card",
				mcp.WithDescription("Append a card to a dashboard view after confirmation."),
				mcp.WithNumber("view_index", mcp.Required(), mcp.Description("Zero-based index of the target view.")),
				mcp.WithObject("card", mcp.Required(), mcp.Description("Card configuration, e.g. {\"type\": \"light\", \"entity\": \"light.kitchen\"}.")),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index, err := req.RequireInt("view_index")
				if err != nil {
					return nil, err
				}
				card, ok := objectArg(req, "card")
				if !ok {
					return nil, fmt.Errorf("card must be a JSON object")
				}
				urlPath := req.GetString("url_path", "")
				cfg, views, err := loadViews(ctx, d, urlPath)
				if err != nil {
					return nil, err
				}
				if index < 0 || index >= len(views) {
					return nil, viewRangeError(index, len(views))
				}
				view, ok := views[index].(map[string]any)
				if !ok {
					return nil, fmt.Errorf("view %d is not an object", index)
				}
				cards := asAnySlice(view["cards"])
				cards = append(cards, card)
				view["cards"] = cards
				cfg["views"] = views

				preview := confirm.Preview{
					Action:       confirm.ActionCreate,
					ResourceType: "dashboard card",
					Identifier:   fmt.Sprintf("%s - view[%d]", dashboardName(urlPath), index),
					Config:       card,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveDashboardConfig(ctx, urlPath, cfg); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{
					"result":     "added",
					"card_index": len(cards) - 1,
					"view_index": index,
				})
			},
		},
		{
			Def: mcp.NewTool("ha_update_card",
				mcp.WithDescription("Replace a card in a dashboard view after confirmation."),
				mcp.WithNumber("view_index", mcp.Required(), mcp.Description("Zero-based index of the view containing the card.")),
				mcp.WithNumber("card_index", mcp.Required(), mcp.Description("Zero-based index of the card within the view.")),
				mcp.WithObject("card", mcp.Required(), mcp.Description("New card configuration.")),
				mcp.WithString("url_path", mcp.Description("Dashboard url path; omit for the default dashboard.")),
				mcp.WithBoolean("skip_confirm", mcp.Description("Skip the confirmation prompt.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				viewIndex, err := req.RequireInt("view_index")
				if err != nil {
					return nil, err
				}
				cardIndex, err := req.RequireInt("card_index")
				if err != nil {
					return nil, err
				}
				card, ok := objectArg(req, "card")
				if !ok {
					return nil, fmt.Errorf("card must be a JSON object")
				}
				urlPath := req.GetString("url_path", "")
				cfg, views, err := loadViews(ctx, d, urlPath)
				if err != nil {
					return nil, err
				}
				if viewIndex < 0 || viewIndex >= len(views) {
					return nil, viewRangeError(viewIndex, len(views))
				}
				view, ok := views[viewIndex].(map[string]any)
				if !ok {
					return nil, fmt.Errorf("view %d is not an object", viewIndex)
				}
				cards := asAnySlice(view["cards"])
				if cardIndex < 0 || cardIndex >= len(cards) {
					return nil, fmt.Errorf("card index %d out of range, view has %d cards", cardIndex, len(cards))
				}
				cards[cardIndex] = card
				view["cards"] = cards
				cfg["views"] = views

				preview := confirm.Preview{
					Action:       confirm.ActionUpdate,
					ResourceType: "dashboard card",
					Identifier:   fmt.Sprintf("%s - view[%d]/card[%d]", dashboardName(urlPath), viewIndex, cardIndex),
					Config:       card,
				}
				if err := d.Confirm.Confirm(ctx, preview, req.GetBool("skip_confirm", false)); err != nil {
					return nil, err
				}
				if err := d.Client.SaveDashboardConfig(ctx, urlPath, cfg); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{
					"result":     "updated",
					"card_index": cardIndex,
					"view_index": viewIndex,
				})
			},
		},
	}
}

// loadViews fetches a dashboard config and returns it with its views slice.
func loadViews(ctx context.Context, d *Deps, urlPath string) (map[string]any, []any, error) {
	cfg, err := d.Client.DashboardConfig(ctx, urlPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, asAnySlice(cfg["views"]), nil
}

func viewRangeError(index, total int) error {
	return fmt.Errorf("view index %d out of range, dashboard has %d views", index, total)
}

func dashboardName(urlPath string) string {
	if urlPath == "" {
		return "default"
	}
	return urlPath
}

func viewTitle(view any) string {
	if m, ok := view.(map[string]any); ok {
		if title, ok := m["title"].(string); ok && title != "" {
			return title
		}
	}
	return "Untitled"
}

func asAnySlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
