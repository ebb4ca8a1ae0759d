package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tone-task/tone-mcp/internal/logging"
	"github.com/tone-task/tone-mcp/internal/server"
	"github.com/tone-task/tone-mcp/internal/tone"
)

// Resource URIs.
const (
	MySelfURI     = "tone://myself"
	WorkspacesURI = "tone://workspaces"
)

const mimeJSON = "application/json"

// RegisterToneResources registers the user profile and workspace tree
// resources. Both are read-only and available in read-only mode.
func RegisterToneResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("mcp server and server context are required")
	}

	mySelf := mcp.NewResource(
		MySelfURI,
		"Current tone User",
		mcp.WithResourceDescription("Profile of the user the secret belongs to, including the user ID used for assignees"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(mySelf, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleMySelf(ctx, request, sc)
	})

	workspaces := mcp.NewResource(
		WorkspacesURI,
		"tone Workspaces",
		mcp.WithResourceDescription("Every workspace with its teamspaces and lists, as returned by the API"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(workspaces, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleWorkspaces(ctx, request, sc)
	})

	return nil
}

// handleMySelf returns the calling user's profile
func handleMySelf(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	var resp tone.MySelfResponse
	if err := sc.Client().Query(ctx, tone.MethodGetMySelf, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("user profile not found")
	}
	slog.DebugContext(ctx, "resolved tone user", logging.UserHash(resp.User.Email.String()))

	return jsonContents(request.Params.URI, resp.User)
}

// handleWorkspaces returns the workspace trees exactly as received
func handleWorkspaces(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	var resp tone.WorkspacesResponse
	if err := sc.Client().Query(ctx, tone.MethodGetWorkspaces, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get workspaces: %w", err)
	}
	if resp.Workspaces == nil {
		return nil, fmt.Errorf("workspaces not found")
	}

	trees := make([]json.RawMessage, 0, len(*resp.Workspaces))
	for _, w := range *resp.Workspaces {
		if len(w.Raw) > 0 {
			trees = append(trees, w.Raw)
			continue
		}
		raw, err := json.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal workspace %s: %w", w.ID, err)
		}
		trees = append(trees, raw)
	}

	return jsonContents(request.Params.URI, trees)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
