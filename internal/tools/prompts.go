package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerPrompts adds guided workflows for the common multi-step jobs.
func registerPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("create_automation_wizard",
		mcp.WithPromptDescription("Step-by-step flow for building a new automation from a goal."),
		mcp.WithArgument("goal", mcp.ArgumentDescription("What the automation should achieve."), mcp.RequiredArgument()),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		goal := req.Params.Arguments["goal"]
		text := fmt.Sprintf(`Help me build a Home Assistant automation for this goal: %s

Work through these steps:
1. Use ha_list_entities and ha_list_areas to find the entities involved.
2. Check current behavior with ha_get_state where useful.
3. Draft the automation config and dry-run it with ha_validate_config.
4. Show me the config and save it with ha_upsert_automation once I approve.`, goal)
		return mcp.NewGetPromptResult("Automation creation wizard", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})

	s.AddPrompt(mcp.NewPrompt("optimize_automations",
		mcp.WithPromptDescription("Review existing automations for conflicts, duplicates and gaps."),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text := `Review my Home Assistant automations:
1. Run ha_detect_conflicts and explain anything it finds.
2. Run ha_analyze_coverage and point out areas with devices but no automations.
3. Run ha_suggest_automations and pick the three most useful suggestions.
4. For each improvement, show the proposed config before changing anything.`
		return mcp.NewGetPromptResult("Automation review", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})

	s.AddPrompt(mcp.NewPrompt("build_dashboard",
		mcp.WithPromptDescription("Design a Lovelace dashboard around a focus area."),
		mcp.WithArgument("focus", mcp.ArgumentDescription("Room, floor or theme the dashboard is for.")),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		focus := req.Params.Arguments["focus"]
		if focus == "" {
			focus = "the whole home"
		}
		text := fmt.Sprintf(`Design a Home Assistant dashboard for %s:
1. Use ha_list_areas and ha_list_entities to find what belongs on it.
2. Use ha_get_dashboard to see the current layout.
3. Propose a view structure with sensible cards per domain.
4. Apply it with ha_update_dashboard after I approve the preview.`, focus)
		return mcp.NewGetPromptResult("Dashboard design", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})

	s.AddPrompt(mcp.NewPrompt("setup_helper_and_automation",
		mcp.WithPromptDescription("Create an input helper and an automation that uses it, together."),
		mcp.WithArgument("helper_type", mcp.ArgumentDescription("Helper type, e.g. input_boolean or input_datetime."), mcp.RequiredArgument()),
		mcp.WithArgument("purpose", mcp.ArgumentDescription("What the helper and automation are for."), mcp.RequiredArgument()),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		helperType := req.Params.Arguments["helper_type"]
		purpose := req.Params.Arguments["purpose"]
		text := fmt.Sprintf(`Create a %s helper for this purpose: %s

Then create an automation that uses it:
1. Create the helper with ha_create_helper. Pick a descriptive name and sensible defaults for the type, and show me the config before creating it.
2. Create an automation with ha_upsert_automation that uses the helper as its trigger, condition or in its actions. Show the config first.
3. Verify both exist with ha_list_helpers and ha_get_automation, and explain how they work together.`, helperType, purpose)
		return mcp.NewGetPromptResult("Helper and automation setup", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})

	s.AddPrompt(mcp.NewPrompt("import_and_configure_blueprint",
		mcp.WithPromptDescription("Import a community blueprint and turn it into a working automation or script."),
		mcp.WithArgument("url", mcp.ArgumentDescription("Blueprint source URL; omit to pick from the installed ones.")),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		url := req.Params.Arguments["url"]
		importStep := "1. List installed blueprints with ha_list_blueprints and ask me which one to configure, or whether to import a new one by URL."
		if url != "" {
			importStep = fmt.Sprintf("1. Import the blueprint from %s with ha_import_blueprint and report the result.", url)
		}
		text := fmt.Sprintf(`Help me set up a Home Assistant blueprint:
%s
2. Fetch it with ha_get_blueprint and walk me through each input: what it does, whether it is required, and which of my entities fit (use ha_list_entities to suggest candidates).
3. Build the automation or script with ha_create_from_blueprint once the inputs are settled, and show me the preview before applying.`, importStep)
		return mcp.NewGetPromptResult("Blueprint setup", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})

	s.AddPrompt(mcp.NewPrompt("troubleshoot_automation",
		mcp.WithPromptDescription("Diagnose a broken or misbehaving automation."),
		mcp.WithArgument("automation_id", mcp.ArgumentDescription("Config id or entity id of the automation."), mcp.RequiredArgument()),
	), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		id := req.Params.Arguments["automation_id"]
		text := fmt.Sprintf(`Troubleshoot the automation %s:
1. Fetch its config with ha_get_automation and lay out the triggers, conditions and actions.
2. Dry-run it with ha_validate_config and report any errors.
3. Check the current state of every referenced entity with ha_get_state; flag anything unavailable or that could never satisfy a condition.
4. Look for recent runs in ha_get_logbook and related errors in ha_get_error_log.
5. Diagnose the most likely cause and propose a fixed config; apply it with ha_upsert_automation only after I approve.
Check every step even if an early one finds a problem.`, id)
		return mcp.NewGetPromptResult("Automation troubleshooting", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})
}
