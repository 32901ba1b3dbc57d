package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	grimoire "github.com/louisbranch/grimoire.cards/internal/services/grimoire/service"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Grimoire Cards MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over a deck-building service.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server exposing the deck-building tools.
func New(svc *grimoire.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("grimoire service is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	registerDeckTools(mcpServer, svc)
	registerRankTools(mcpServer, svc)
	registerLibraryTools(mcpServer, svc)

	return &Server{mcpServer: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Run creates a server over the given service and serves it on stdio.
func Run(ctx context.Context, svc *grimoire.Service) error {
	mcpServer, err := New(svc)
	if err != nil {
		return err
	}
	return mcpServer.Serve(ctx)
}
