package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/contentmcp/agent/provider"
)

// videoTranscriptTool is excluded from the offered tool set when the user
// input carries no recognizable video link, keeping the prompt smaller and
// discouraging spurious transcript fetches.
const videoTranscriptTool = "fetch_video_transcript"

var youtubeURLPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com|youtu\.be)/`)

// defaultInputSchema stands in for tools that advertise no schema.
var defaultInputSchema = json.RawMessage(`{"type":"object","properties":{},"required":[]}`)

// listTools fetches the host's catalog filtered by input relevance.
// A missing or failing host yields an empty set; the agent then runs as a
// plain chat agent for the turn.
func (a *Agent) listTools(ctx context.Context, hint string) []provider.ToolDef {
	if a.host == nil {
		return nil
	}

	descriptors, err := a.host.ListTools(ctx)
	if err != nil {
		a.logger.Warn("could not list tools; continuing without them", "error", err)
		return nil
	}

	defs := make([]provider.ToolDef, 0, len(descriptors))
	for _, desc := range descriptors {
		if skipTool(desc.Name, hint) {
			a.logger.Debug("skipping tool not relevant to input", "tool", desc.Name)
			continue
		}

		params := defaultInputSchema
		if desc.InputSchema != nil {
			if encoded, err := json.Marshal(desc.InputSchema); err == nil {
				params = encoded
			}
		}

		defs = append(defs, provider.ToolDef{
			Name:        desc.Name,
			Description: desc.Description,
			Parameters:  params,
		})
	}
	return defs
}

// skipTool applies the cheap relevance pre-checks. An empty hint disables
// filtering.
func skipTool(name, hint string) bool {
	if hint == "" {
		return false
	}
	return name == videoTranscriptTool && !youtubeURLPattern.MatchString(hint)
}

// invokeTool dispatches one tool call and always returns text: dispatch
// failures become a readable error string the model can react to in the next
// round instead of aborting the turn.
func (a *Agent) invokeTool(ctx context.Context, call provider.ToolCall) string {
	if a.host == nil {
		return "Error: MCP server not available"
	}

	// A malformed argument payload downgrades to an empty argument set.
	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			a.logger.Debug("could not parse tool arguments; calling with none",
				"tool", call.Name, "error", err)
			args = map[string]any{}
		}
	}

	a.logger.Info("calling tool", "tool", call.Name)
	output, err := a.host.CallTool(ctx, call.Name, args)
	if err != nil {
		return fmt.Sprintf("Error calling tool %s: %v", call.Name, err)
	}
	if output == "" {
		return "Tool executed but returned no content"
	}
	a.logger.Info("tool completed", "tool", call.Name, "chars", len(output))
	return output
}
