package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"yeomju/internal/core/db"
	"yeomju/internal/core/models"
	"yeomju/internal/core/stats"
)

// ChantStatsArgs defines arguments for the chant_stats tool
type ChantStatsArgs struct {
	By   string `json:"by,omitempty" jsonschema:"description=Grouping unit: hour, day, week, month or year (default: day)"`
	Type string `json:"type,omitempty" jsonschema:"description=Only count one chant type label"`
}

// ListSessionsArgs defines arguments for the list_sessions tool
type ListSessionsArgs struct {
	Day string `json:"day,omitempty" jsonschema:"description=Day to list (YYYY-MM-DD, default: today)"`
}

// DayLogArgs defines arguments for the day_log tool
type DayLogArgs struct {
	Day string `json:"day,omitempty" jsonschema:"description=Day to list (YYYY-MM-DD, default: today)"`
}

// SessionSummary represents one session in tool output
type SessionSummary struct {
	Label     string `json:"label"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Count     int    `json:"count"`
	Running   bool   `json:"running"`
}

// LogLine represents one count event in tool output
type LogLine struct {
	At     string `json:"at"`
	Source string `json:"source"`
	Delta  int    `json:"delta"`
	Total  int    `json:"total"`
	Open   bool   `json:"open,omitempty"`
}

// StartServer starts the MCP server
func StartServer(dbPath string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	s := server.NewMCPServer(
		"Yeomju",
		"1.0.0",
	)

	statsTool := mcp.NewTool("chant_stats",
		mcp.WithDescription("Chant count totals grouped by hour, day, week, month or year, optionally filtered to one chant type."),
		mcp.WithString("by",
			mcp.Description("Grouping unit: hour, day, week, month or year (default: day)")),
		mcp.WithString("type",
			mcp.Description("Only count one chant type label, e.g. 관세음보살")),
	)
	s.AddTool(statsTool, makeChantStatsHandler(database))

	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List the chant sessions of one day with labels, counts and times."),
		mcp.WithString("day",
			mcp.Description("Day to list (YYYY-MM-DD, default: today)")),
	)
	s.AddTool(listTool, makeListSessionsHandler(database))

	logTool := mcp.NewTool("day_log",
		mcp.WithDescription("List every count event of one day: voice segments, small and big manual changes."),
		mcp.WithString("day",
			mcp.Description("Day to list (YYYY-MM-DD, default: today)")),
	)
	s.AddTool(logTool, makeDayLogHandler(database))

	return server.ServeStdio(s)
}

func dayOrToday(day string) (string, error) {
	if day == "" {
		return models.DayKey(time.Now()), nil
	}
	if _, err := time.ParseInLocation("2006-01-02", day, time.Local); err != nil {
		return "", fmt.Errorf("invalid day %q (want YYYY-MM-DD)", day)
	}
	return day, nil
}

func makeChantStatsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ChantStatsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		by := args.By
		if by == "" {
			by = "day"
		}
		agg, err := stats.ParseAggregation(by)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var filter *models.ChantType
		if args.Type != "" {
			for _, t := range models.ChantTypes() {
				if t.Label() == args.Type {
					t := t
					filter = &t
					break
				}
			}
			if filter == nil {
				return mcp.NewToolResultError(fmt.Sprintf("unknown chant type %q", args.Type)), nil
			}
		}

		sessions, err := database.AllSessions()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load sessions: %v", err)), nil
		}

		points := stats.Load(sessions, agg, filter)
		resultJSON, err := json.Marshal(map[string]interface{}{
			"points": points,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeListSessionsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListSessionsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		ymd, err := dayOrToday(args.Day)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sessions, err := database.SessionsOfDay(ymd)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load sessions: %v", err)), nil
		}

		results := make([]SessionSummary, 0, len(sessions))
		total := 0
		for _, s := range sessions {
			label := s.TypeLabel
			if s.CustomLabel != "" {
				label = s.CustomLabel
			}
			item := SessionSummary{
				Label:     label,
				StartedAt: time.UnixMilli(s.StartedAt).In(time.Local).Format("15:04:05"),
				Count:     s.Count,
				Running:   s.Running(),
			}
			if s.EndedAt != nil {
				item.EndedAt = time.UnixMilli(*s.EndedAt).In(time.Local).Format("15:04:05")
			}
			results = append(results, item)
			total += s.Count
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"day":      ymd,
			"sessions": results,
			"total":    total,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeDayLogHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args DayLogArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		ymd, err := dayOrToday(args.Day)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entries, err := database.LogsOfDay(ymd)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load log: %v", err)), nil
		}

		lines := make([]LogLine, 0, len(entries))
		for i := range entries {
			e := &entries[i]
			lines = append(lines, LogLine{
				At:     time.UnixMilli(e.Timestamp).In(time.Local).Format("15:04:05"),
				Source: string(e.Source),
				Delta:  e.Delta,
				Total:  e.Total,
				Open:   e.Open(),
			})
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"day":     ymd,
			"entries": lines,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}
