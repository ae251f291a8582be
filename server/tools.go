package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/graph"
	"github.com/dhamidi/javatree/java"
	"github.com/dhamidi/javatree/java/codebase"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListRootsArgs struct{}

type ClassInfoArgs struct {
	Name string `json:"name" jsonschema:"simple or nested name of the class, generic parameters are ignored"`
}

type ClassTreeArgs struct {
	Name    string `json:"name,omitempty" jsonschema:"class whose subclasses to print, all root classes when empty"`
	Charset string `json:"charset,omitempty" jsonschema:"one of graphics, text or spaces, text when empty"`
}

type RescanArgs struct{}

type rootInfo struct {
	Name        string `json:"name"`
	File        string `json:"file,omitempty"`
	Descendants int    `json:"descendants"`
}

type rootsReply struct {
	Paths   []string   `json:"paths"`
	Classes int        `json:"classes"`
	Roots   []rootInfo `json:"roots"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_roots",
		Description: "Lists the classes at the top of the scanned class hierarchy",
	}, s.listRoots)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "class_info",
		Description: "Describes one class: modifiers, superclass, interfaces, subclasses and declaring file",
	}, s.classInfo)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "class_tree",
		Description: "Prints the subclass tree below a class, or below every root class",
	}, s.classTree)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rescan",
		Description: "Scans the source roots again and replaces the class graph",
	}, s.rescan)
}

func (s *Server) listRoots(ctx context.Context, req *mcp.CallToolRequest, args ListRootsArgs) (*mcp.CallToolResult, any, error) {
	reply := rootsReply{Paths: s.codebase.Roots()}
	s.codebase.View(func(r *codebase.Result) {
		reply.Classes = r.ClassCount()
		roots := r.Graph.Roots()
		if s.opts.Sort {
			graph.SortByName(roots)
		}
		for _, n := range roots {
			reply.Roots = append(reply.Roots, rootInfo{
				Name:        n.Name(),
				File:        n.File(),
				Descendants: r.Graph.CountDescendants(n),
			})
		}
	})
	data, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Encoding failed: %v", err)), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func (s *Server) classInfo(ctx context.Context, req *mcp.CallToolRequest, args ClassInfoArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return errorResult("name is required"), nil, nil
	}
	summary, ok := s.codebase.Summary(args.Name)
	if !ok {
		return errorResult(fmt.Sprintf("Class %q not found", args.Name)), nil, nil
	}
	return textResult(summary), nil, nil
}

func (s *Server) classTree(ctx context.Context, req *mcp.CallToolRequest, args ClassTreeArgs) (*mcp.CallToolResult, any, error) {
	name := args.Charset
	if name == "" {
		name = config.FormatText
	}
	charset, ok := format.Charsets[name]
	if !ok || name == config.FormatHTML {
		return errorResult(fmt.Sprintf("Unknown charset %q", args.Charset)), nil, nil
	}

	opts := s.opts
	opts.Color = false
	opts.Root = args.Name

	var buf bytes.Buffer
	var err error
	found := true
	s.codebase.View(func(r *codebase.Result) {
		if args.Name != "" {
			if _, found = r.Graph.Lookup(java.ErasedName(args.Name)); !found {
				return
			}
		}
		err = format.NewTreeEncoder(&buf, charset, opts).Encode(r.Graph)
	})
	if !found {
		return errorResult(fmt.Sprintf("Class %q not found", args.Name)), nil, nil
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Rendering failed: %v", err)), nil, nil
	}
	return textResult(buf.String()), nil, nil
}

func (s *Server) rescan(ctx context.Context, req *mcp.CallToolRequest, args RescanArgs) (*mcp.CallToolResult, any, error) {
	result, err := s.codebase.Rescan()
	if err != nil {
		s.log.Errorf("rescan: %s", err)
		return errorResult(fmt.Sprintf("Scan failed: %v", err)), nil, nil
	}
	return textResult(fmt.Sprintf("%d files parsed, %d classes found", result.FilesParsed, result.ClassCount())), nil, nil
}
