package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Sherpa resources.
	uriScheme = "sherpa://"

	sourcesURI = uriScheme + "sources"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sourcesURI,
		Name:        "sources",
		Description: "Configured source directories per document type",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// sourceInfo is the JSON shape of one configured source.
type sourceInfo struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

// handleSourcesResource returns the configured sources. Unset paths are omitted.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := []sourceInfo{}

	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		for _, src := range settings.Sources {
			if src.Path == "" {
				continue
			}
			infos = append(infos, sourceInfo{
				Type:      string(src.Type),
				Name:      src.Type.Description(),
				Path:      src.Path,
				Recursive: src.Recursive,
			})
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
