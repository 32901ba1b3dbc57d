// Package domain defines the MCP tool schemas and handlers for the grimoire
// deck-building session.
package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	grimoire "github.com/louisbranch/grimoire.cards/internal/services/grimoire/service"
)

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// AspectEntry describes one aspect in an overview result.
type AspectEntry struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Eligible   bool   `json:"eligible"`
	Unlocked   bool   `json:"unlocked"`
	Selected   bool   `json:"selected"`
	Selectable bool   `json:"selectable"`
}

// CardEntry describes one available card in an overview result.
type CardEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Rank      int    `json:"rank"`
	MaxCopies int    `json:"max_copies"`
	Quantity  int    `json:"quantity"`
	Aspect    string `json:"aspect"`
	Role      string `json:"role"`
}

// TypeUsageEntry reports capacity consumption for one card type.
type TypeUsageEntry struct {
	Type      string `json:"type"`
	Total     int    `json:"total"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// OverviewResult represents the full deck session view.
type OverviewResult struct {
	RankCap       int              `json:"rank_cap" jsonschema:"current rank cap"`
	OverrideAll   bool             `json:"override_all" jsonschema:"debug override mode"`
	Aspects       []AspectEntry    `json:"aspects"`
	Cards         []CardEntry      `json:"cards"`
	Types         []TypeUsageEntry `json:"types"`
	PageTotal     int              `json:"page_total" jsonschema:"pages used"`
	PageRemaining int              `json:"page_remaining" jsonschema:"pages left"`
	RankPhase     string           `json:"rank_phase" jsonschema:"rank transition phase"`
	Notices       []string         `json:"notices" jsonschema:"active capacity notices"`
}

// DeckOverviewTool defines the MCP tool schema for reading the session.
func DeckOverviewTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deck_overview",
		Description: "Reads the full deck session state: aspects, cards, capacity counters, rank transition",
	}
}

// DeckOverviewHandler reads the deck session view.
func DeckOverviewHandler(svc *grimoire.Service) mcp.ToolHandlerFor[EmptyInput, OverviewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, OverviewResult, error) {
		return nil, overviewResult(svc.Overview(ctx)), nil
	}
}

func overviewResult(view grimoire.Overview) OverviewResult {
	result := OverviewResult{
		RankCap:       view.RankCap,
		OverrideAll:   view.OverrideAll,
		PageTotal:     view.PageTotal,
		PageRemaining: view.PageRemaining,
		RankPhase:     string(view.Rank.Phase),
	}
	for _, aspect := range view.Aspects {
		result.Aspects = append(result.Aspects, AspectEntry{
			Slug:       aspect.Slug,
			Name:       aspect.Name,
			Category:   string(aspect.Category),
			Eligible:   aspect.Eligible,
			Unlocked:   aspect.Unlocked,
			Selected:   aspect.Selected,
			Selectable: aspect.Selectable,
		})
	}
	for _, card := range view.Cards {
		result.Cards = append(result.Cards, CardEntry{
			ID:        card.ID,
			Name:      card.Name,
			Type:      string(card.Type),
			Rank:      card.Rank,
			MaxCopies: card.MaxCopies,
			Quantity:  card.Quantity,
			Aspect:    card.Aspect,
			Role:      string(card.Role),
		})
	}
	for _, usage := range view.Types {
		result.Types = append(result.Types, TypeUsageEntry{
			Type:      string(usage.Type),
			Total:     usage.Total,
			Limit:     usage.Limit,
			Remaining: usage.Remaining,
		})
	}
	for _, notice := range view.Notices {
		result.Notices = append(result.Notices, notice.Message)
	}
	return result
}

// AspectToggleInput selects the aspect to toggle.
type AspectToggleInput struct {
	Slug string `json:"slug" jsonschema:"aspect slug"`
}

// AspectToggleResult reports whether the toggle was applied.
type AspectToggleResult struct {
	Applied  bool     `json:"applied" jsonschema:"whether the toggle changed state"`
	Selected []string `json:"selected" jsonschema:"currently selected aspect slugs"`
}

// AspectToggleTool defines the MCP tool schema for toggling an aspect.
func AspectToggleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "aspect_toggle",
		Description: "Toggles an aspect selection; deselecting clears its card entries, refusals are silent",
	}
}

// AspectToggleHandler flips one aspect selection.
func AspectToggleHandler(svc *grimoire.Service) mcp.ToolHandlerFor[AspectToggleInput, AspectToggleResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AspectToggleInput) (*mcp.CallToolResult, AspectToggleResult, error) {
		applied := svc.ToggleAspect(ctx, input.Slug)
		result := AspectToggleResult{Applied: applied}
		for _, aspect := range svc.Overview(ctx).Aspects {
			if aspect.Selected {
				result.Selected = append(result.Selected, aspect.Slug)
			}
		}
		return nil, result, nil
	}
}

// CardQuantityInput selects a card and a target quantity.
type CardQuantityInput struct {
	CardID   string `json:"card_id" jsonschema:"card identifier"`
	Quantity int    `json:"quantity" jsonschema:"target quantity"`
}

// CardInput selects a single card.
type CardInput struct {
	CardID string `json:"card_id" jsonschema:"card identifier"`
}

// CardQuantityResult reports a card's quantity after an operation.
type CardQuantityResult struct {
	CardID   string `json:"card_id"`
	Quantity int    `json:"quantity" jsonschema:"quantity after the operation"`
}

// CardSetQuantityTool defines the MCP tool schema for setting a quantity.
func CardSetQuantityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "card_set_quantity",
		Description: "Sets a card quantity directly, clamped to the card's copy limit",
	}
}

// CardSetQuantityHandler stores an explicit card quantity.
func CardSetQuantityHandler(svc *grimoire.Service) mcp.ToolHandlerFor[CardQuantityInput, CardQuantityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CardQuantityInput) (*mcp.CallToolResult, CardQuantityResult, error) {
		svc.SetQuantity(ctx, input.CardID, input.Quantity)
		return nil, CardQuantityResult{CardID: input.CardID, Quantity: svc.CardQuantity(input.CardID)}, nil
	}
}

// CardIncrementResult reports an increment outcome and the resulting quantity.
type CardIncrementResult struct {
	CardID   string   `json:"card_id"`
	Result   string   `json:"result" jsonschema:"applied or the denial reason"`
	Quantity int      `json:"quantity" jsonschema:"quantity after the operation"`
	Notices  []string `json:"notices" jsonschema:"active capacity notices"`
}

// CardIncrementTool defines the MCP tool schema for raising a quantity.
func CardIncrementTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "card_increment",
		Description: "Raises a card quantity by one, honoring copy, type, and page caps",
	}
}

// CardIncrementHandler raises a card quantity by one.
func CardIncrementHandler(svc *grimoire.Service) mcp.ToolHandlerFor[CardInput, CardIncrementResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CardInput) (*mcp.CallToolResult, CardIncrementResult, error) {
		outcome := svc.IncrementCard(ctx, input.CardID)
		result := CardIncrementResult{
			CardID:   input.CardID,
			Result:   outcome.String(),
			Quantity: svc.CardQuantity(input.CardID),
		}
		for _, notice := range svc.Overview(ctx).Notices {
			result.Notices = append(result.Notices, notice.Message)
		}
		return nil, result, nil
	}
}

// CardDecrementTool defines the MCP tool schema for lowering a quantity.
func CardDecrementTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "card_decrement",
		Description: "Lowers a card quantity by one, flooring at zero",
	}
}

// CardDecrementHandler lowers a card quantity by one.
func CardDecrementHandler(svc *grimoire.Service) mcp.ToolHandlerFor[CardInput, CardQuantityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CardInput) (*mcp.CallToolResult, CardQuantityResult, error) {
		svc.DecrementCard(ctx, input.CardID)
		return nil, CardQuantityResult{CardID: input.CardID, Quantity: svc.CardQuantity(input.CardID)}, nil
	}
}

// CardSetMaxTool defines the MCP tool schema for maxing one card.
func CardSetMaxTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "card_set_max",
		Description: "Raises one card to the highest quantity the caps allow",
	}
}

// CardSetMaxHandler raises one card as far as the quotas allow.
func CardSetMaxHandler(svc *grimoire.Service) mcp.ToolHandlerFor[CardInput, CardQuantityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CardInput) (*mcp.CallToolResult, CardQuantityResult, error) {
		svc.SetMaxSingle(ctx, input.CardID)
		return nil, CardQuantityResult{CardID: input.CardID, Quantity: svc.CardQuantity(input.CardID)}, nil
	}
}

// AspectInput selects a single aspect.
type AspectInput struct {
	Slug string `json:"slug" jsonschema:"aspect slug"`
}

// AspectCardsResult reports the quantities of one aspect's cards.
type AspectCardsResult struct {
	Slug  string      `json:"slug"`
	Cards []CardEntry `json:"cards"`
}

// AspectFillTool defines the MCP tool schema for bulk-filling an aspect.
func AspectFillTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "aspect_fill",
		Description: "Raises every accessible card of an aspect as far as the caps allow",
	}
}

// AspectFillHandler bulk-fills one aspect.
func AspectFillHandler(svc *grimoire.Service) mcp.ToolHandlerFor[AspectInput, AspectCardsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AspectInput) (*mcp.CallToolResult, AspectCardsResult, error) {
		svc.FillAspect(ctx, input.Slug)
		return nil, aspectCardsResult(svc.Overview(ctx), input.Slug), nil
	}
}

// AspectClearTool defines the MCP tool schema for bulk-clearing an aspect.
func AspectClearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "aspect_clear",
		Description: "Zeroes every card entry of an aspect",
	}
}

// AspectClearHandler bulk-clears one aspect.
func AspectClearHandler(svc *grimoire.Service) mcp.ToolHandlerFor[AspectInput, AspectCardsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AspectInput) (*mcp.CallToolResult, AspectCardsResult, error) {
		svc.ClearAspect(ctx, input.Slug)
		return nil, aspectCardsResult(svc.Overview(ctx), input.Slug), nil
	}
}

func aspectCardsResult(view grimoire.Overview, slug string) AspectCardsResult {
	result := AspectCardsResult{Slug: slug}
	for _, card := range view.Cards {
		if card.Aspect != slug {
			continue
		}
		result.Cards = append(result.Cards, CardEntry{
			ID:        card.ID,
			Name:      card.Name,
			Type:      string(card.Type),
			Rank:      card.Rank,
			MaxCopies: card.MaxCopies,
			Quantity:  card.Quantity,
			Aspect:    card.Aspect,
			Role:      string(card.Role),
		})
	}
	return result
}

// OverrideInput switches the constraint escape hatch.
type OverrideInput struct {
	Enabled bool `json:"enabled" jsonschema:"whether override mode is on"`
}

// OverrideResult reports the override mode after the change.
type OverrideResult struct {
	Enabled bool `json:"enabled"`
}

// OverrideSetTool defines the MCP tool schema for the override escape hatch.
func OverrideSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "override_set",
		Description: "Switches the debug override mode that disables all constraints",
	}
}

// OverrideSetHandler switches override mode.
func OverrideSetHandler(svc *grimoire.Service) mcp.ToolHandlerFor[OverrideInput, OverrideResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input OverrideInput) (*mcp.CallToolResult, OverrideResult, error) {
		svc.SetOverride(ctx, input.Enabled)
		return nil, OverrideResult{Enabled: svc.Overview(ctx).OverrideAll}, nil
	}
}

// DeckResetTool defines the MCP tool schema for resetting the session deck.
func DeckResetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deck_reset",
		Description: "Discards the session deck and returns to the default state; unlocked aspects survive",
	}
}

// DeckResetHandler resets the session deck.
func DeckResetHandler(svc *grimoire.Service) mcp.ToolHandlerFor[EmptyInput, OverviewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, OverviewResult, error) {
		svc.Reset(ctx)
		return nil, overviewResult(svc.Overview(ctx)), nil
	}
}
