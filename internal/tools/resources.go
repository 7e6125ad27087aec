package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources exposes installed blueprints as a resource template so
// clients can browse them without a tool call.
func registerResources(s *server.MCPServer, d *Deps) {
	tmpl := mcp.NewResourceTemplate("ha://blueprints/{domain}", "Installed blueprints",
		mcp.WithTemplateDescription("Blueprints installed for a domain (automation or script)."),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.AddResourceTemplate(tmpl, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		domain := strings.TrimPrefix(req.Params.URI, "ha://blueprints/")
		if domain == "" || strings.Contains(domain, "/") {
			return nil, fmt.Errorf("invalid blueprint resource uri %q", req.Params.URI)
		}
		blueprints, err := d.Client.ListBlueprints(ctx, domain)
		if err != nil {
			return nil, err
		}
		raw, err := json.MarshalIndent(blueprints, "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(raw),
			},
		}, nil
	})
}
