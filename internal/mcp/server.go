// ABOUTME: MCP server setup for the habit tracker.
// ABOUTME: Wraps MCP server with a storage Repository and the logged-in user.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	user      *models.User
}

// NewServer creates a new MCP server acting on behalf of user.
func NewServer(repo storage.Repository, user *models.User) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("mcp server requires a repository")
	}
	if user == nil {
		return nil, fmt.Errorf("mcp server requires a logged-in user")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "habits",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		user:      user,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
