package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roandegraaf/ha-mcp/internal/confirm"
)

// elicitSolicitor asks the connected MCP client for approval via the
// elicitation capability. Clients without it yield Unsupported, which the
// orchestrator resolves with the configured default.
type elicitSolicitor struct {
	log *slog.Logger
}

func NewElicitSolicitor(log *slog.Logger) confirm.Solicitor {
	return &elicitSolicitor{log: log}
}

func (e *elicitSolicitor) Solicit(ctx context.Context, message string) (confirm.Decision, error) {
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return confirm.Unsupported, nil
	}

	result, err := srv.RequestElicitation(ctx, mcp.ElicitationRequest{
		Params: mcp.ElicitationParams{
			Message: message,
			RequestedSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"confirm": map[string]any{
						"type":        "boolean",
						"description": "Apply this change",
					},
				},
				"required": []string{"confirm"},
			},
		},
	})
	if err != nil {
		e.log.Debug("elicitation request failed", "error", err)
		return confirm.Unsupported, nil
	}

	return decisionFromElicitation(result), nil
}

// decisionFromElicitation maps the client's elicitation response onto a
// confirmation decision. Content is untyped on the wire; anything short of
// an accept carrying confirm=true counts as a rejection.
func decisionFromElicitation(result *mcp.ElicitationResult) confirm.Decision {
	switch result.Action {
	case mcp.ElicitationResponseActionAccept:
		if content, ok := result.Content.(map[string]any); ok {
			if v, ok := content["confirm"].(bool); ok && v {
				return confirm.Approved
			}
		}
		return confirm.Rejected
	case mcp.ElicitationResponseActionDecline, mcp.ElicitationResponseActionCancel:
		return confirm.Rejected
	default:
		return confirm.Unsupported
	}
}
