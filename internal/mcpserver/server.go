// Package mcpserver exposes depgraph's two operations, build and
// select, as MCP tools over stdio: build_graph and summarize_selection.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nuthan-ms/depgraph/internal/analyzer"
	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/langprovider"
	"github.com/nuthan-ms/depgraph/internal/selection"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Config names and versions the MCP server for its client handshake.
type Config struct {
	Name    string
	Version string
}

// Server wraps an *mcp.Server exposing depgraph's build/select
// operations. It keeps no graph state between calls: every build_graph
// call performs a fresh (or previous-graph-assisted) build, and every
// summarize_selection call reads the graph JSON path it's given.
type Server struct {
	server *mcp.Server
}

// BuildGraphArgs is the argument shape for the build_graph tool.
type BuildGraphArgs struct {
	Dir               string `json:"dir"`
	ConfigPath        string `json:"config_path,omitempty"`
	PreviousGraphPath string `json:"previous_graph_path,omitempty"`
}

// SummarizeSelectionArgs is the argument shape for the
// summarize_selection tool. Include/Exclude entries accept the same
// three shapes DecodeSelectionEntry does: a bare node id string,
// [id, depth], or [id, depth, edgeKinds].
type SummarizeSelectionArgs struct {
	GraphPath  string            `json:"graph_path"`
	ConfigPath string            `json:"config_path,omitempty"`
	Include    []json.RawMessage `json:"include,omitempty"`
	Exclude    []json.RawMessage `json:"exclude,omitempty"`
}

// NewServer constructs the MCP server and registers its tools.
func NewServer(cfg Config) (*Server, error) {
	log.SetOutput(os.Stderr)

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{server: srv}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "build_graph",
		Description: "Scan a directory and build its finalized dependency graph, returning nodes, edges, stats, and warnings as JSON.",
	}, s.buildGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_selection",
		Description: "Summarize a connected subset of a previously built graph by include/exclude closure, returning the selected node ids, total size, and the largest members.",
	}, s.summarizeSelection)
}

func (s *Server) buildGraph(ctx context.Context, req *mcp.CallToolRequest, args BuildGraphArgs) (*mcp.CallToolResult, any, error) {
	if args.Dir == "" {
		return nil, nil, fmt.Errorf("dir is required")
	}

	cfg, err := config.Load(args.ConfigPath, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	provider, err := langprovider.New()
	if err != nil {
		return nil, nil, err
	}
	defer provider.Close()

	var previous *types.Graph
	if args.PreviousGraphPath != "" {
		previous, err = readGraphFile(args.PreviousGraphPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read previous graph: %w", err)
		}
	}

	result, err := analyzer.BuildGraph(types.BuildOptions{
		Cwd:                  args.Dir,
		Provider:             provider,
		Config:               cfg.ScanConfig(),
		PreviousGraph:        previous,
		HashSizeEnforcement:  cfg.HashSizePolicy(),
		NodeDescriptionLimit: cfg.NodeDescriptionLimit,
		NodeDescriptionTags:  cfg.NodeDescriptionTags,
		MaxErrors:            cfg.MaxErrors,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build graph: %w", err)
	}

	return textResult(result)
}

func (s *Server) summarizeSelection(ctx context.Context, req *mcp.CallToolRequest, args SummarizeSelectionArgs) (*mcp.CallToolResult, any, error) {
	if args.GraphPath == "" {
		return nil, nil, fmt.Errorf("graph_path is required")
	}

	cfg, err := config.Load(args.ConfigPath, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	graph, err := readGraphFile(args.GraphPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read graph: %w", err)
	}

	include, err := decodeAll(args.Include)
	if err != nil {
		return nil, nil, fmt.Errorf("decode include entries: %w", err)
	}
	exclude, err := decodeAll(args.Exclude)
	if err != nil {
		return nil, nil, fmt.Errorf("decode exclude entries: %w", err)
	}

	summary, err := selection.SummarizeSelection(types.SelectionInput{
		Graph:   graph,
		Include: include,
		Exclude: exclude,
		Options: cfg.SelectionOptions(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("summarize selection: %w", err)
	}

	return textResult(summary)
}

// Run starts the server over stdio, the transport an MCP client
// launching depgraph as a subprocess expects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, mcp.NewStdioTransport())
}

func decodeAll(raw []json.RawMessage) ([]types.SelectionEntry, error) {
	entries := make([]types.SelectionEntry, 0, len(raw))
	for _, r := range raw {
		entry, err := selection.DecodeSelectionEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readGraphFile(path string) (*types.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	graph := types.NewGraph()
	if err := json.Unmarshal(data, graph); err != nil {
		return nil, err
	}
	return graph, nil
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
