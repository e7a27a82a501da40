// Package mcptools exposes the explorer to MCP clients: running queries,
// validating shapes and probing the SPARQL endpoint.
package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/audit"
	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/models"
	"github.com/hello-sparql/explorer/pkg/version"
)

const (
	ToolQuery    = "sparql_query"
	ToolHealth   = "sparql_health"
	ToolValidate = "shacl_validate"

	serverName = "hello-sparql-explorer"
	auditUser  = "mcp"
)

type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

func Tools(env *explorer.Env) []Registration {
	return []Registration{
		toolQuery(env),
		toolHealth(env),
		toolValidate(env),
	}
}

func RegisterAll(s *server.MCPServer, registrations []Registration) {
	for _, r := range registrations {
		s.AddTool(r.Tool, r.Handler)
	}
}

// NewServer returns an MCP server with every explorer tool registered.
func NewServer(env *explorer.Env) *server.MCPServer {
	s := server.NewMCPServer(serverName, version.Version(),
		server.WithToolCapabilities(false),
	)
	RegisterAll(s, Tools(env))

	return s
}

func formatOption() mcp.ToolOption {
	names := make([]string, 0, len(models.Formats))
	for _, f := range models.Formats {
		names = append(names, f.String())
	}

	return mcp.WithString("format",
		mcp.Description(fmt.Sprintf("Result serialization format, one of %s. Defaults to %s.", strings.Join(names, ", "), models.DefaultFormat)),
		mcp.Enum(names...),
	)
}

func toolQuery(env *explorer.Env) Registration {
	tool := mcp.NewTool(ToolQuery,
		mcp.WithDescription("Run a SPARQL query against RDF data in Turtle syntax and return the serialized result."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SPARQL query to run."),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("The RDF data to query, in Turtle syntax."),
		),
		mcp.WithBoolean("inference",
			mcp.Description("Whether the endpoint should apply inference before querying."),
		),
		formatOption(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request := models.QueryRequest{
			Query:     req.GetString("query", ""),
			Data:      req.GetString("data", ""),
			Inference: req.GetBool("inference", false),
		}
		if err := request.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		format, err := models.ParseFormat(req.GetString("format", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := env.LoggerAudit.Write(&audit.QueryData{
			Query:     request.Query,
			Format:    format.String(),
			Inference: request.Inference,
			User:      auditUser,
			RequestID: uuid.NewString(),
			Timestamp: time.Now().Unix(),
		}); err != nil {
			env.Logger.Errorf("Unable to write audit: %s", err)
			return mcp.NewToolResultError("An internal error has occurred"), nil
		}

		result, err := env.RunQuery(ctx, request, format)
		if err != nil {
			return mcp.NewToolResultError(client.AsError(err).Display()), nil
		}

		return mcp.NewToolResultText(result.Result), nil
	}

	return Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolHealth(env *explorer.Env) Registration {
	tool := mcp.NewTool(ToolHealth,
		mcp.WithDescription("Check whether the SPARQL endpoint is reachable."),
	)

	handler := func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !env.Healthy(ctx) {
			return mcp.NewToolResultText(fmt.Sprintf("SPARQL endpoint %s is unavailable", env.Client.BaseURL())), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("SPARQL endpoint %s is healthy", env.Client.BaseURL())), nil
	}

	return Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolValidate(env *explorer.Env) Registration {
	tool := mcp.NewTool(ToolValidate,
		mcp.WithDescription("Validate RDF data in Turtle syntax against SHACL shapes and return the validation report."),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("The RDF data to validate, in Turtle syntax."),
		),
		mcp.WithString("shapes",
			mcp.Required(),
			mcp.Description("The SHACL shapes graph, in Turtle syntax."),
		),
		formatOption(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request := models.ShapesRequest{
			Data:   req.GetString("data", ""),
			Shapes: req.GetString("shapes", ""),
		}
		if err := request.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		format, err := models.ParseFormat(req.GetString("format", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		report, err := env.Client.ValidateShapes(ctx, request, format)
		if err != nil {
			return mcp.NewToolResultError(client.AsError(err).Display()), nil
		}

		return mcp.NewToolResultText(report), nil
	}

	return Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
