package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	grimoire "github.com/louisbranch/grimoire.cards/internal/services/grimoire/service"
)

// RankRequestInput asks for a new rank cap.
type RankRequestInput struct {
	Target int `json:"target" jsonschema:"requested rank cap (1-5)"`
}

// StrandedEntryResult describes one entry a lowering change would zero.
type StrandedEntryResult struct {
	CardID   string `json:"card_id"`
	Name     string `json:"name"`
	Aspect   string `json:"aspect"`
	Rank     int    `json:"rank"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// RankChangeResult reports the rank transition state.
type RankChangeResult struct {
	Phase          string                `json:"phase" jsonschema:"stable or pending_lower_confirmation"`
	RankCap        int                   `json:"rank_cap" jsonschema:"current rank cap"`
	Target         int                   `json:"target,omitempty" jsonschema:"pending target cap"`
	StrandedTotal  int                   `json:"stranded_total,omitempty"`
	StrandedByType map[string]int        `json:"stranded_by_type,omitempty"`
	Stranded       []StrandedEntryResult `json:"stranded,omitempty"`
	Message        string                `json:"message,omitempty" jsonschema:"confirmation prompt"`
}

func rankChangeResult(view grimoire.RankChangeView) RankChangeResult {
	result := RankChangeResult{
		Phase:         string(view.Phase),
		RankCap:       view.RankCap,
		Target:        view.Target,
		StrandedTotal: view.StrandedTotal,
		Message:       view.Message,
	}
	if len(view.StrandedByType) > 0 {
		result.StrandedByType = make(map[string]int, len(view.StrandedByType))
		for cardType, count := range view.StrandedByType {
			result.StrandedByType[string(cardType)] = count
		}
	}
	for _, entry := range view.Stranded {
		result.Stranded = append(result.Stranded, StrandedEntryResult{
			CardID:   entry.CardID,
			Name:     entry.Name,
			Aspect:   entry.AspectName,
			Rank:     entry.Rank,
			Type:     string(entry.Type),
			Quantity: entry.Quantity,
		})
	}
	return result
}

// RankRequestTool defines the MCP tool schema for requesting a rank cap.
func RankRequestTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rank_request",
		Description: "Requests a new rank cap; lowering past stranded entries parks the change for confirmation",
	}
}

// RankRequestHandler requests a rank cap change.
func RankRequestHandler(svc *grimoire.Service) mcp.ToolHandlerFor[RankRequestInput, RankChangeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RankRequestInput) (*mcp.CallToolResult, RankChangeResult, error) {
		view, err := svc.RequestRankCap(ctx, input.Target)
		if err != nil {
			return nil, RankChangeResult{}, err
		}
		return nil, rankChangeResult(view), nil
	}
}

// RankConfirmTool defines the MCP tool schema for confirming a rank change.
func RankConfirmTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rank_confirm",
		Description: "Confirms the pending rank lowering, zeroing its stranded entries",
	}
}

// RankConfirmHandler confirms the pending rank change.
func RankConfirmHandler(svc *grimoire.Service) mcp.ToolHandlerFor[EmptyInput, RankChangeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, RankChangeResult, error) {
		view, err := svc.ConfirmRankCap(ctx)
		if err != nil {
			return nil, RankChangeResult{}, err
		}
		return nil, rankChangeResult(view), nil
	}
}

// RankCancelTool defines the MCP tool schema for canceling a rank change.
func RankCancelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rank_cancel",
		Description: "Cancels the pending rank lowering without touching the deck",
	}
}

// RankCancelHandler cancels the pending rank change.
func RankCancelHandler(svc *grimoire.Service) mcp.ToolHandlerFor[EmptyInput, RankChangeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, RankChangeResult, error) {
		view, err := svc.CancelRankCap(ctx)
		if err != nil {
			return nil, RankChangeResult{}, err
		}
		return nil, rankChangeResult(view), nil
	}
}
