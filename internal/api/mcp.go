package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/studyflow/internal/history"
	"github.com/kalambet/studyflow/internal/pipeline"
	"github.com/kalambet/studyflow/internal/planner"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Planner *pipeline.Planner
	History *history.Store
}

// NewMCPServer creates an MCP server exposing the study planner to agent
// clients: plan generation, session recording, and progress stats.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"studyflow",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("studyflow: local study session planner with adaptive timings and progress tracking."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("plan_session",
			mcp.WithDescription("Build a structured study session plan for a goal, with timings adapted to recent focus scores."),
			mcp.WithString("goal", mcp.Description("What the learner wants to accomplish"), mcp.Required()),
			mcp.WithString("session_length", mcp.Description("short, medium, or long (default medium)")),
			mcp.WithArray("focus_history", mcp.Description("Recent focus scores, 1-5")),
		),
		mcpPlanSession(deps),
	)

	s.AddTool(
		mcp.NewTool("record_session",
			mcp.WithDescription("Record a completed study session and get an encouragement message."),
			mcp.WithNumber("completion_rate", mcp.Description("Fraction of the plan completed, 0-1 (default 0.8)")),
			mcp.WithNumber("focus_score", mcp.Description("Self-reported focus, 1-5 (default 3)")),
			mcp.WithString("session_length", mcp.Description("short, medium, or long (default medium)")),
			mcp.WithString("task_type", mcp.Description("study, revision, or assignment (default study)")),
			mcp.WithNumber("duration", mcp.Description("Minutes spent (default 25)")),
		),
		mcpRecordSession(deps),
	)

	s.AddTool(
		mcp.NewTool("study_stats",
			mcp.WithDescription("Summarize recent study performance: session count, average focus, favorite category, total time."),
		),
		mcpStudyStats(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"study://stats",
			"Study Progress",
			mcp.WithResourceDescription("Current progress statistics as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStats(deps),
	)

	return s
}

func mcpPlanSession(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		goal, err := req.RequireString("goal")
		if err != nil {
			return mcpError("goal is required"), nil
		}

		length := planner.SessionLength(req.GetString("session_length", string(planner.SessionMedium)))
		focusHistory := intSliceArg(req, "focus_history")

		plan, _, err := deps.Planner.GeneratePlan(ctx, pipeline.PlanRequest{
			Goal:          goal,
			SessionLength: length,
			FocusHistory:  focusHistory,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("planning failed: %v", err)), nil
		}

		b, err := json.Marshal(plan)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal plan: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecordSession(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rec := history.Record{
			CompletionRate: req.GetFloat("completion_rate", 0.8),
			FocusScore:     req.GetInt("focus_score", 3),
			SessionLength:  req.GetString("session_length", "medium"),
			TaskType:       req.GetString("task_type", "study"),
			Duration:       req.GetInt("duration", 25),
			Timestamp:      time.Now(),
		}
		deps.History.Record(rec)

		return mcpText(history.CompletionMessage(rec.FocusScore, rec.CompletionRate)), nil
	}
}

func mcpStudyStats(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.History.Stats())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceStats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.History.Stats())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

// intSliceArg reads an array argument of JSON numbers as ints.
func intSliceArg(req mcp.CallToolRequest, key string) []int {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
