package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	grimoire "github.com/louisbranch/grimoire.cards/internal/services/grimoire/service"
)

// RedeemInput carries an unlock code.
type RedeemInput struct {
	Code string `json:"code" jsonschema:"unlock code"`
}

// RedeemResult reports a redemption outcome.
type RedeemResult struct {
	Status   string   `json:"status" jsonschema:"ok, used, or invalid"`
	Unlocked []string `json:"unlocked,omitempty" jsonschema:"newly unlocked aspect slugs"`
	Message  string   `json:"message" jsonschema:"localized user-facing message"`
}

// CodeRedeemTool defines the MCP tool schema for redeeming unlock codes.
func CodeRedeemTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "code_redeem",
		Description: "Redeems an aspect unlock code, reporting ok, used, or invalid",
	}
}

// CodeRedeemHandler redeems an unlock code.
func CodeRedeemHandler(svc *grimoire.Service) mcp.ToolHandlerFor[RedeemInput, RedeemResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RedeemInput) (*mcp.CallToolResult, RedeemResult, error) {
		redemption := svc.Redeem(ctx, input.Code)
		result := RedeemResult{Status: string(redemption.Status), Message: redemption.Message}
		for _, aspect := range redemption.Unlocked {
			result.Unlocked = append(result.Unlocked, aspect.Slug)
		}
		return nil, result, nil
	}
}

// FilterInput carries an AIP-160 card filter.
type FilterInput struct {
	Filter string `json:"filter" jsonschema:"AIP-160 filter, e.g. type = \"Holy\" AND rank <= 3"`
}

// FilterResult lists the matching catalog cards.
type FilterResult struct {
	Cards []CardEntry `json:"cards"`
}

// CardsFilterTool defines the MCP tool schema for filtering the card pool.
func CardsFilterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cards_filter",
		Description: "Filters the catalog card pool with an AIP-160 expression over name, type, rank, aspect, max_copies, and role",
	}
}

// CardsFilterHandler evaluates a card filter.
func CardsFilterHandler(svc *grimoire.Service) mcp.ToolHandlerFor[FilterInput, FilterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FilterInput) (*mcp.CallToolResult, FilterResult, error) {
		cards, err := svc.FilterCards(ctx, input.Filter)
		if err != nil {
			return nil, FilterResult{}, err
		}
		result := FilterResult{}
		for _, card := range cards {
			result.Cards = append(result.Cards, CardEntry{
				ID:        card.ID,
				Name:      card.Name,
				Type:      string(card.Type),
				Rank:      card.Rank,
				MaxCopies: card.MaxCopies,
				Aspect:    card.Aspect,
			})
		}
		return nil, result, nil
	}
}

// DeckSaveInput names the deck to persist.
type DeckSaveInput struct {
	ID   string `json:"id" jsonschema:"deck identifier"`
	Name string `json:"name" jsonschema:"deck display name"`
}

// DeckSaveResult acknowledges a save.
type DeckSaveResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DeckSaveTool defines the MCP tool schema for saving the session deck.
func DeckSaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deck_save",
		Description: "Saves the session deck to the library under the given id and name",
	}
}

// DeckSaveHandler saves the session deck.
func DeckSaveHandler(svc *grimoire.Service) mcp.ToolHandlerFor[DeckSaveInput, DeckSaveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeckSaveInput) (*mcp.CallToolResult, DeckSaveResult, error) {
		if err := svc.SaveDeck(ctx, input.ID, input.Name); err != nil {
			return nil, DeckSaveResult{}, err
		}
		return nil, DeckSaveResult{ID: input.ID, Name: input.Name}, nil
	}
}

// DeckIDInput selects a saved deck.
type DeckIDInput struct {
	ID string `json:"id" jsonschema:"deck identifier"`
}

// DeckLoadTool defines the MCP tool schema for loading a saved deck.
func DeckLoadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deck_load",
		Description: "Replaces the session deck with a saved snapshot; stale entries are dropped tolerantly",
	}
}

// DeckLoadHandler loads a saved deck into the session.
func DeckLoadHandler(svc *grimoire.Service) mcp.ToolHandlerFor[DeckIDInput, OverviewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeckIDInput) (*mcp.CallToolResult, OverviewResult, error) {
		if err := svc.LoadDeck(ctx, input.ID); err != nil {
			return nil, OverviewResult{}, err
		}
		return nil, overviewResult(svc.Overview(ctx)), nil
	}
}

// DeckListInput pages through the saved-deck library.
type DeckListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum decks to return"`
	PageToken string `json:"page_token,omitempty" jsonschema:"opaque continuation token"`
}

// DeckListEntry describes one saved deck.
type DeckListEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
}

// DeckListResult lists saved decks.
type DeckListResult struct {
	Decks         []DeckListEntry `json:"decks"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

// DeckListTool defines the MCP tool schema for listing saved decks.
func DeckListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deck_list",
		Description: "Lists saved decks in the library",
	}
}

const defaultDeckPageSize = 20

// DeckListHandler lists the saved-deck library.
func DeckListHandler(svc *grimoire.Service) mcp.ToolHandlerFor[DeckListInput, DeckListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeckListInput) (*mcp.CallToolResult, DeckListResult, error) {
		pageSize := input.PageSize
		if pageSize <= 0 {
			pageSize = defaultDeckPageSize
		}
		decks, nextToken, err := svc.ListDecks(ctx, pageSize, input.PageToken)
		if err != nil {
			return nil, DeckListResult{}, err
		}
		result := DeckListResult{NextPageToken: nextToken}
		for _, deck := range decks {
			result.Decks = append(result.Decks, DeckListEntry{
				ID:        deck.ID,
				Name:      deck.Name,
				UpdatedAt: deck.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		return nil, result, nil
	}
}

// DeckDeleteResult acknowledges a delete.
type DeckDeleteResult struct {
	ID string `json:"id"`
}

// DeckDeleteTool defines the MCP tool schema for deleting a saved deck.
func DeckDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deck_delete",
		Description: "Removes one saved deck from the library",
	}
}

// DeckDeleteHandler deletes a saved deck.
func DeckDeleteHandler(svc *grimoire.Service) mcp.ToolHandlerFor[DeckIDInput, DeckDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeckIDInput) (*mcp.CallToolResult, DeckDeleteResult, error) {
		if err := svc.DeleteDeck(ctx, input.ID); err != nil {
			return nil, DeckDeleteResult{}, err
		}
		return nil, DeckDeleteResult{ID: input.ID}, nil
	}
}

// ShareExportInput names the exported deck.
type ShareExportInput struct {
	Name string `json:"name" jsonschema:"deck display name embedded in the grant"`
}

// ShareExportResult carries the signed share grant.
type ShareExportResult struct {
	Grant string `json:"grant" jsonschema:"signed share grant token"`
}

// ShareExportTool defines the MCP tool schema for exporting a share grant.
func ShareExportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "share_export",
		Description: "Signs the session deck into a portable share grant token",
	}
}

// ShareExportHandler exports the session deck as a share grant.
func ShareExportHandler(svc *grimoire.Service) mcp.ToolHandlerFor[ShareExportInput, ShareExportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ShareExportInput) (*mcp.CallToolResult, ShareExportResult, error) {
		grant, err := svc.ExportShare(ctx, input.Name)
		if err != nil {
			return nil, ShareExportResult{}, err
		}
		return nil, ShareExportResult{Grant: grant}, nil
	}
}

// ShareImportInput carries a share grant token.
type ShareImportInput struct {
	Grant string `json:"grant" jsonschema:"signed share grant token"`
}

// ShareImportTool defines the MCP tool schema for importing a share grant.
func ShareImportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "share_import",
		Description: "Validates a share grant and replaces the session deck with its snapshot",
	}
}

// ShareImportHandler imports a shared deck into the session.
func ShareImportHandler(svc *grimoire.Service) mcp.ToolHandlerFor[ShareImportInput, OverviewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ShareImportInput) (*mcp.CallToolResult, OverviewResult, error) {
		if err := svc.ImportShare(ctx, input.Grant); err != nil {
			return nil, OverviewResult{}, err
		}
		return nil, overviewResult(svc.Overview(ctx)), nil
	}
}
