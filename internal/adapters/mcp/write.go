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
	"attentionos/internal/ports"
)

// RegisterWriteTools adds the tools that change triage state to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps *commands.Deps, grants ports.DirectoryGrantStore) {
	s.AddTool(captureTool(), captureHandler(deps))
	s.AddTool(triageTool(), triageHandler(deps))
	s.AddTool(createCaseTool(), createCaseHandler(deps))
	s.AddTool(startAttemptTool(), startAttemptHandler(deps))
	s.AddTool(completeAttemptTool(), completeAttemptHandler(deps))
	s.AddTool(pauseAttemptTool(), pauseAttemptHandler(deps))
	s.AddTool(exportCasesTool(), exportCasesHandler(deps, grants))
}

// --- capture ---

func captureTool() mcp.Tool {
	return mcp.NewTool("capture",
		mcp.WithDescription("Capture a thought into the inbox for later triage."),
		mcp.WithString("thought",
			mcp.Description("The thought to capture"),
			mcp.Required(),
		),
		mcp.WithString("why",
			mcp.Description("Why it matters"),
		),
	)
}

func captureHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCaptureCommand(deps, req.GetString("thought", ""), req.GetString("why", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\nID: %s", result.Message, result.Item.ID)), nil
	}
}

// --- triage ---

func triageTool() mcp.Tool {
	return mcp.NewTool("triage",
		mcp.WithDescription("Apply a quick triage action to an inbox item, case or attempt."),
		mcp.WithString("id",
			mcp.Description("ID of the entity"),
			mcp.Required(),
		),
		mcp.WithString("action",
			mcp.Description("Triage action"),
			mcp.Enum(string(commands.TriageDoNow), string(commands.TriageSchedule), string(commands.TriageDrop)),
			mcp.Required(),
		),
		mcp.WithString("kind",
			mcp.Description("Entity kind. Defaults to inbox."),
			mcp.Enum("inbox", "case", "attempt"),
		),
		mcp.WithString("date",
			mcp.Description("Review date for schedule (YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow, +Nd)"),
		),
	)
}

func triageHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := commands.ParseKind(req.GetString("kind", ""))
		if err != nil {
			return toolError(err)
		}
		action, err := commands.ParseTriageAction(req.GetString("action", ""))
		if err != nil {
			return toolError(err)
		}

		var date time.Time
		if action == commands.TriageSchedule {
			date, err = application.ParseDate("date", req.GetString("date", ""), deps.Clock())
			if err != nil {
				return toolError(err)
			}
		}

		result, err := commands.NewTriageCommand(deps, kind, req.GetString("id", ""), action, date).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- create_case ---

func createCaseTool() mcp.Tool {
	return mcp.NewTool("create_case",
		mcp.WithDescription("Create a case to track a piece of work. Setting next_review also schedules a reminder."),
		mcp.WithString("title",
			mcp.Description("Case title"),
			mcp.Required(),
		),
		mcp.WithString("brief",
			mcp.Description("One paragraph summary"),
		),
		mcp.WithString("details",
			mcp.Description("Longer notes"),
		),
		mcp.WithNumber("importance",
			mcp.Description("Importance 0-10"),
		),
		mcp.WithNumber("urgency",
			mcp.Description("Urgency 0-10"),
		),
		mcp.WithString("decision",
			mcp.Description("Triage decision"),
			mcp.Enum(decisions(true)...),
		),
		mcp.WithString("next_review",
			mcp.Description("Review date (YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow, +Nd)"),
		),
	)
}

func createCaseHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		importance, err := application.ParseWeight("importance", req.GetFloat("importance", 0))
		if err != nil {
			return toolError(err)
		}
		urgency, err := application.ParseWeight("urgency", req.GetFloat("urgency", 0))
		if err != nil {
			return toolError(err)
		}

		fields := domain.CaseFields{
			Title:      req.GetString("title", ""),
			Brief:      req.GetString("brief", ""),
			Details:    req.GetString("details", ""),
			Importance: importance,
			Urgency:    urgency,
		}
		if raw := req.GetString("decision", ""); raw != "" {
			d, err := application.ParseDecision(raw)
			if err != nil {
				return toolError(err)
			}
			fields.Decision = d
		}
		next, err := optionalDate(deps, req, "next_review")
		if err != nil {
			return toolError(err)
		}
		fields.NextReview = next

		result, err := commands.NewCreateCaseCommand(deps, fields).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\nID: %s", result.Message, result.Case.ID)), nil
	}
}

// --- start_attempt ---

func startAttemptTool() mcp.Tool {
	return mcp.NewTool("start_attempt",
		mcp.WithDescription("Start an attempt under a case. Only one attempt may be active at a time; start it paused to queue it."),
		mcp.WithString("case_id",
			mcp.Description("Owning case ID"),
			mcp.Required(),
		),
		mcp.WithString("note",
			mcp.Description("What this attempt tries"),
		),
		mcp.WithString("state",
			mcp.Description("Initial state. Defaults to active."),
			mcp.Enum(string(application.StateInbox), string(application.StateActive), string(application.StatePaused)),
		),
		mcp.WithNumber("benefit",
			mcp.Description("Expected benefit 0-10 in steps of 0.5"),
		),
		mcp.WithNumber("friction",
			mcp.Description("Expected friction 0-10 in steps of 0.5"),
		),
		mcp.WithString("next_review",
			mcp.Description("Review date (YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow, +Nd)"),
		),
	)
}

func startAttemptHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fields := domain.AttemptFields{
			Note:     req.GetString("note", ""),
			Benefit:  req.GetFloat("benefit", 0),
			Friction: req.GetFloat("friction", 0),
		}
		if raw := req.GetString("state", ""); raw != "" {
			st, err := application.ParseState(raw)
			if err != nil {
				return toolError(err)
			}
			fields.State = st
		}
		next, err := optionalDate(deps, req, "next_review")
		if err != nil {
			return toolError(err)
		}
		fields.NextReview = next

		result, err := commands.NewStartAttemptCommand(deps, req.GetString("case_id", ""), fields).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\nID: %s", result.Message, result.Attempt.ID)), nil
	}
}

// --- complete_attempt ---

func completeAttemptTool() mcp.Tool {
	return mcp.NewTool("complete_attempt",
		mcp.WithDescription("Close an attempt with its outcome and final decision."),
		mcp.WithString("id",
			mcp.Description("Attempt ID"),
			mcp.Required(),
		),
		mcp.WithString("outcome",
			mcp.Description("What happened"),
			mcp.Required(),
		),
		mcp.WithString("decision",
			mcp.Description("Final decision"),
			mcp.Enum(decisions(false)...),
			mcp.Required(),
		),
		mcp.WithNumber("benefit",
			mcp.Description("Observed benefit 0-10 in steps of 0.5"),
		),
		mcp.WithNumber("friction",
			mcp.Description("Observed friction 0-10 in steps of 0.5"),
		),
	)
}

func completeAttemptHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decision, err := application.ParseDecision(req.GetString("decision", ""))
		if err != nil {
			return toolError(err)
		}
		values := domain.CompletionValues{
			Decision: decision,
			Benefit:  req.GetFloat("benefit", 0),
			Friction: req.GetFloat("friction", 0),
			Outcome:  req.GetString("outcome", ""),
		}

		result, err := commands.NewCompleteAttemptCommand(deps, req.GetString("id", ""), values).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- pause_attempt ---

func pauseAttemptTool() mcp.Tool {
	return mcp.NewTool("pause_attempt",
		mcp.WithDescription("Pause the active attempt until a review date, freeing the active slot."),
		mcp.WithString("id",
			mcp.Description("Attempt ID"),
			mcp.Required(),
		),
		mcp.WithString("until",
			mcp.Description("Review date (YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow, +Nd)"),
			mcp.Required(),
		),
	)
}

func pauseAttemptHandler(deps *commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		until, err := application.ParseDate("until", req.GetString("until", ""), deps.Clock())
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewPauseAttemptCommand(deps, req.GetString("id", ""), until).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- export_cases ---

func exportCasesTool() mcp.Tool {
	return mcp.NewTool("export_cases",
		mcp.WithDescription("Write cases as Markdown files into the granted export directory. Without ids every case is exported."),
		mcp.WithString("ids",
			mcp.Description("Comma separated case IDs"),
		),
	)
}

func exportCasesHandler(deps *commands.Deps, grants ports.DirectoryGrantStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var ids []string
		for _, id := range strings.Split(req.GetString("ids", ""), ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}

		result, err := commands.NewExportCommand(deps, grants, ids...).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(result.Message)
		for _, name := range result.Written {
			fmt.Fprintf(&sb, "\n  wrote %s", name)
		}
		for _, f := range result.Failures {
			fmt.Fprintf(&sb, "\n  failed %s", f.Error())
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func optionalDate(deps *commands.Deps, req mcp.CallToolRequest, key string) (*time.Time, error) {
	raw := req.GetString(key, "")
	if raw == "" {
		return nil, nil
	}
	t, err := application.ParseDate(key, raw, deps.Clock())
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decisions(withUndecided bool) []string {
	all := []string{
		string(application.DecisionDoNow),
		string(application.DecisionSchedule),
		string(application.DecisionDelegate),
		string(application.DecisionDrop),
	}
	if withUndecided {
		return append([]string{string(application.DecisionUndecided)}, all...)
	}
	return all
}
