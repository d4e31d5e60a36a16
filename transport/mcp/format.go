package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", info.ID)
	if info.ScenarioID != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", info.ScenarioID)
	}
	if info.State == nil {
		return b.String()
	}

	var walls []engine.Wall
	if info.Scenario != nil {
		walls = info.Scenario.Walls
	}
	b.WriteString(formatState(info.State, walls))
	return b.String()
}

func formatState(state *engine.State, walls []engine.Wall) string {
	var b strings.Builder
	b.WriteString(robot.Render(*state, walls))
	fmt.Fprintf(&b, "Position: (%d,%d)\n", state.Position.Row, state.Position.Col)
	fmt.Fprintf(&b, "Painted: %d\n", len(state.PaintedCells))
	if state.ActionLimit > 0 {
		fmt.Fprintf(&b, "Actions: %d/%d\n", state.ActionsDone, state.ActionLimit)
	} else {
		fmt.Fprintf(&b, "Actions: %d\n", state.ActionsDone)
	}
	if state.Crashed {
		fmt.Fprintf(&b, "CRASHED: %s (use reset_env)\n", state.CrashReason)
	}
	return b.String()
}

func formatCallResult(result *service.CallResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("OK: ")
	} else {
		b.WriteString("FAILED: ")
	}
	b.WriteString(result.Message + "\n")
	if result.Kind == robot.Action || !result.Success {
		fmt.Fprintf(&b, "Moved: (%d,%d) -> (%d,%d)\n", result.From.Row, result.From.Col, result.To.Row, result.To.Col)
	}
	if len(result.FreeDirections) > 0 {
		fmt.Fprintf(&b, "Free directions: %s\n", strings.Join(result.FreeDirections, ", "))
	} else {
		b.WriteString("Free directions: none\n")
	}
	if result.State != nil {
		if result.State.ActionLimit > 0 {
			fmt.Fprintf(&b, "Actions: %d/%d\n", result.State.ActionsDone, result.State.ActionLimit)
		} else {
			fmt.Fprintf(&b, "Actions: %d\n", result.State.ActionsDone)
		}
	}
	return b.String()
}

func formatRunResult(result *service.RunResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "Program completed: %d/%d ops\n", result.OpsExecuted, result.RequestedOps)
	} else {
		fmt.Fprintf(&b, "Program stopped [%s]: %s\n", result.StopReasonCode, result.StoppedReason)
	}
	if result.Truncated {
		fmt.Fprintf(&b, "Program truncated to %d ops\n", result.Limit)
	}

	for _, step := range result.Steps {
		line := fmt.Sprintf("%3d. %s", step.Idx, step.Op)
		switch {
		case !step.Success:
			line += " -> " + step.ErrorMsg
		case step.Value != nil:
			line += fmt.Sprintf(" -> %t", *step.Value)
		case step.From != step.To:
			line += fmt.Sprintf(" (%d,%d)->(%d,%d)", step.From.Row, step.From.Col, step.To.Row, step.To.Col)
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "Start: (%d,%d) End: (%d,%d)\n", result.StartPos.Row, result.StartPos.Col, result.EndPos.Row, result.EndPos.Col)
	fmt.Fprintf(&b, "Actions: %d -> %d, painted %+d\n", result.ActionsBefore, result.ActionsAfter, result.PaintedDelta)
	return b.String()
}

func formatEvents(events *service.EventsResponse) string {
	if len(events.Events) == 0 {
		return fmt.Sprintf("No events (total %d)", events.TotalEvents)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Events page %d/%d (total %d):\n", events.Page, events.TotalPages, events.TotalEvents)
	for _, ev := range events.Events {
		fmt.Fprintf(&b, "#%d %s -> (%d,%d) action %d\n", ev.Seq, ev.Action, ev.Position.Row, ev.Position.Col, ev.ActionNumber)
	}
	if events.HasNext {
		fmt.Fprintf(&b, "More events on page %d\n", events.Page+1)
	}
	return b.String()
}
