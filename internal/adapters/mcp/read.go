package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"attentionos/internal/application"
	"attentionos/internal/application/commands"
	"attentionos/internal/domain"
)

const displayLayout = "2006-01-02 15:04"

// RegisterReadTools adds the read-only triage tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps *commands.Deps) {
	s.AddTool(reviewTool(), reviewHandler(deps))
	s.AddTool(listCasesTool(), listCasesHandler(deps))
	s.AddTool(showCaseTool(), showCaseHandler(deps))
}

// --- review ---

func reviewTool() mcp.Tool {
	return mcp.NewTool("review",
		mcp.WithDescription("Show what needs attention: due, untriaged, do-now and scheduled inbox items, plus cases and attempts whose review date has passed."),
		mcp.WithString("at",
			mcp.Description("Review as of this time (YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow, +Nd). Omit for now."),
		),
	)
}

func reviewHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var at time.Time
		if raw := req.GetString("at", ""); raw != "" {
			t, err := application.ParseDate("at", raw, deps.Clock())
			if err != nil {
				return toolError(err)
			}
			at = t
		}

		result, err := commands.NewReviewCommand(deps, at).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, section := range result.Sections() {
			fmt.Fprintf(&sb, "## %s\n", section.Title)
			if len(section.Items) == 0 {
				fmt.Fprintf(&sb, "%s\n\n", section.Empty)
				continue
			}
			for _, item := range section.Items {
				sb.WriteString(formatInboxItem(item))
				sb.WriteByte('\n')
			}
			sb.WriteByte('\n')
		}
		if len(result.DueCases) > 0 {
			sb.WriteString("## Due cases\n")
			for _, c := range result.DueCases {
				sb.WriteString(formatCase(c))
				sb.WriteByte('\n')
			}
			sb.WriteByte('\n')
		}
		if len(result.DueAttempts) > 0 {
			sb.WriteString("## Due attempts\n")
			for _, a := range result.DueAttempts {
				sb.WriteString(formatAttempt(a))
				sb.WriteByte('\n')
			}
		}
		return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
	}
}

// --- list_cases ---

func listCasesTool() mcp.Tool {
	return mcp.NewTool("list_cases",
		mcp.WithDescription("List cases, newest first."),
		mcp.WithString("state",
			mcp.Description("Only list cases in this state"),
			mcp.Enum(string(application.StateInbox), string(application.StateActive), string(application.StatePaused), string(application.StateDone)),
		),
	)
}

func listCasesHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var state domain.State
		if raw := req.GetString("state", ""); raw != "" {
			st, err := application.ParseState(raw)
			if err != nil {
				return toolError(err)
			}
			state = st
		}

		result, err := commands.NewListCasesCommand(deps, state).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Cases, formatCase)
	}
}

// --- show_case ---

func showCaseTool() mcp.Tool {
	return mcp.NewTool("show_case",
		mcp.WithDescription("Render a case and its attempts as the Markdown document an export would write."),
		mcp.WithString("id",
			mcp.Description("Case ID"),
			mcp.Required(),
		),
	)
}

func showCaseHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		result, err := commands.NewShowCaseCommand(deps, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Markdown), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatRecord(r *domain.TriageRecord) string {
	s := fmt.Sprintf("[%s/%s i=%d u=%d]", r.State, r.Decision, r.Importance, r.Urgency)
	if r.NextReview != nil {
		s += " review " + r.NextReview.Format(displayLayout)
	}
	return s
}

func formatInboxItem(i *domain.InboxItem) string {
	return fmt.Sprintf("%s  %s  %s", i.ID, i.Thought, formatRecord(i.Triage()))
}

func formatCase(c *domain.Case) string {
	return fmt.Sprintf("%s  %s  %s  attempts=%d", c.ID, c.NotificationTitle(), formatRecord(c.Triage()), len(c.Attempts))
}

func formatAttempt(a *domain.Attempt) string {
	return fmt.Sprintf("%s  %s  %s  case=%s", a.ID, a.NotificationTitle(), formatRecord(a.Triage()), a.CaseID)
}
