// Package server exposes a scanned codebase to MCP clients over stdio.
package server

import (
	"context"

	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/java/codebase"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/commonlog"
)

const uriPrefix = "javatree://"

type Server struct {
	codebase  *codebase.Codebase
	mcpServer *mcp.Server
	opts      format.Options
	log       commonlog.Logger
}

func New(c *codebase.Codebase, opts format.Options, version string) *Server {
	s := &Server{
		codebase: c,
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "javatree",
			Version: version,
		}, nil),
		opts: opts,
		log:  commonlog.GetLogger("javatree.mcp"),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves requests on stdin and stdout until the client disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Infof("serving %d roots over stdio", len(s.codebase.Roots()))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
