// Package mcp exposes the extractor and the local task store as Model Context
// Protocol tools over stdio
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"tasker/internal/core/extract"
	"tasker/internal/platform/logger"
	offline "tasker/internal/services/offline/domain"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tasks is the local service the tools run against
type Tasks interface {
	Now() time.Time
	Extract(ctx context.Context, user, text string, now time.Time) (extract.Result, extract.Trace, error)
	AddText(ctx context.Context, user, text string, now time.Time) (offline.Record, error)
	List(ctx context.Context, f offline.Filter) ([]offline.Record, error)
}

// Config wires a server
type Config struct {
	Tasks   Tasks
	User    string
	Version string
}

// Extracted is the extract_task payload
type Extracted struct {
	extract.Result
	Trace *extract.Trace `json:"trace,omitempty"`
}

// handlers may run concurrently and the sqlite store takes one writer
var dbMu sync.Mutex

// NewServer registers every tool on a fresh MCP server
func NewServer(cfg Config) *server.MCPServer {
	if cfg.Tasks == nil {
		panic("mcp server requires a task service")
	}
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	s := server.NewMCPServer("tasker", ver, server.WithToolCapabilities(false))
	registerExtract(s, cfg)
	registerAdd(s, cfg)
	registerList(s, cfg)
	return s
}

// Serve speaks MCP on in/out until ctx is done or in closes
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	logger.C(ctx).Info().Msg("mcp server listening on stdio")
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

func registerExtract(s *server.MCPServer, cfg Config) {
	tool := mcpgo.NewTool("extract_task",
		mcpgo.WithDescription("Split a Brazilian Portuguese task sentence into title, date (YYYY-MM-DD) and time (HH:MM). Nothing is stored."),
		mcpgo.WithReadOnlyHintAnnotation(true),
		mcpgo.WithDestructiveHintAnnotation(false),
		mcpgo.WithString("text",
			mcpgo.Required(),
			mcpgo.Description("The utterance, e.g. 'Levar meu pet amanhã de tarde'"),
		),
		mcpgo.WithString("now",
			mcpgo.Description("Reference instant in RFC3339, defaults to the current time"),
		),
		mcpgo.WithBoolean("explain",
			mcpgo.Description("Include the rules that fired"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpgo.NewToolResultError("text is required"), nil
		}
		now, err := parseNow(req.GetString("now", ""))
		if err != nil {
			return mcpgo.NewToolResultError(err.Error()), nil
		}
		res, tr, err := cfg.Tasks.Extract(ctx, cfg.User, text, now)
		if err != nil {
			return mcpgo.NewToolResultError(err.Error()), nil
		}
		out := Extracted{Result: res}
		if req.GetBool("explain", false) {
			out.Trace = &tr
		}
		return jsonResult(out)
	})
}

func registerAdd(s *server.MCPServer, cfg Config) {
	tool := mcpgo.NewTool("add_task",
		mcpgo.WithDescription("Create a task from a Brazilian Portuguese sentence in the local store. It is sent to the server on the next sync."),
		mcpgo.WithReadOnlyHintAnnotation(false),
		mcpgo.WithDestructiveHintAnnotation(false),
		mcpgo.WithString("text",
			mcpgo.Required(),
			mcpgo.Description("The utterance to turn into a task"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpgo.NewToolResultError("text is required"), nil
		}
		dbMu.Lock()
		defer dbMu.Unlock()
		rec, err := cfg.Tasks.AddText(ctx, cfg.User, text, time.Time{})
		if err != nil {
			return mcpgo.NewToolResultError(fmt.Sprintf("add task: %v", err)), nil
		}
		return jsonResult(rec)
	})
}

func registerList(s *server.MCPServer, cfg Config) {
	tool := mcpgo.NewTool("list_tasks",
		mcpgo.WithDescription("List local tasks of the current user, optionally for one date."),
		mcpgo.WithReadOnlyHintAnnotation(true),
		mcpgo.WithDestructiveHintAnnotation(false),
		mcpgo.WithString("date",
			mcpgo.Description("YYYY-MM-DD, empty lists every date"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()
		recs, err := cfg.Tasks.List(ctx, offline.Filter{User: cfg.User, Date: req.GetString("date", "")})
		if err != nil {
			return mcpgo.NewToolResultError(fmt.Sprintf("list tasks: %v", err)), nil
		}
		if recs == nil {
			recs = []offline.Record{}
		}
		return jsonResult(recs)
	})
}

func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("now must be RFC3339: %q", raw)
	}
	return t, nil
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcpgo.NewToolResultText(string(data)), nil
}
