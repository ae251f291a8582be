package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/java/codebase"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	graphURI   = uriPrefix + "graph.json"
	schemaBase = uriPrefix + "schemas/"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         graphURI,
		Name:        "Class Graph",
		Description: "Every class with its superclasses, subclasses and interfaces",
		MIMEType:    "application/json",
	}, s.readGraph)

	schemas := buildSchemaMap()
	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: schemaBase + "{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		schema, ok := schemas[strings.TrimPrefix(uri, schemaBase)]
		if !ok {
			return nil, fmt.Errorf("unknown tool schema: %q", uri)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: "application/schema+json", Text: schema},
			},
		}, nil
	})
}

func (s *Server) readGraph(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var buf bytes.Buffer
	var err error
	s.codebase.View(func(r *codebase.Result) {
		err = format.NewJSONEncoder(&buf, s.opts).Encode(r.Graph)
	})
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: graphURI, MIMEType: "application/json", Text: buf.String()},
		},
	}, nil
}

func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[ListRootsArgs](m, "list_roots")
	addSchema[ClassInfoArgs](m, "class_info")
	addSchema[ClassTreeArgs](m, "class_tree")
	addSchema[RescanArgs](m, "rescan")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(data)
}
