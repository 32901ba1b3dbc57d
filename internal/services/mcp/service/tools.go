package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	grimoire "github.com/louisbranch/grimoire.cards/internal/services/grimoire/service"
	"github.com/louisbranch/grimoire.cards/internal/services/mcp/domain"
)

func registerDeckTools(mcpServer *mcp.Server, svc *grimoire.Service) {
	mcp.AddTool(mcpServer, domain.DeckOverviewTool(), domain.DeckOverviewHandler(svc))
	mcp.AddTool(mcpServer, domain.AspectToggleTool(), domain.AspectToggleHandler(svc))
	mcp.AddTool(mcpServer, domain.CardSetQuantityTool(), domain.CardSetQuantityHandler(svc))
	mcp.AddTool(mcpServer, domain.CardIncrementTool(), domain.CardIncrementHandler(svc))
	mcp.AddTool(mcpServer, domain.CardDecrementTool(), domain.CardDecrementHandler(svc))
	mcp.AddTool(mcpServer, domain.CardSetMaxTool(), domain.CardSetMaxHandler(svc))
	mcp.AddTool(mcpServer, domain.AspectFillTool(), domain.AspectFillHandler(svc))
	mcp.AddTool(mcpServer, domain.AspectClearTool(), domain.AspectClearHandler(svc))
	mcp.AddTool(mcpServer, domain.OverrideSetTool(), domain.OverrideSetHandler(svc))
	mcp.AddTool(mcpServer, domain.DeckResetTool(), domain.DeckResetHandler(svc))
}

func registerRankTools(mcpServer *mcp.Server, svc *grimoire.Service) {
	mcp.AddTool(mcpServer, domain.RankRequestTool(), domain.RankRequestHandler(svc))
	mcp.AddTool(mcpServer, domain.RankConfirmTool(), domain.RankConfirmHandler(svc))
	mcp.AddTool(mcpServer, domain.RankCancelTool(), domain.RankCancelHandler(svc))
}

func registerLibraryTools(mcpServer *mcp.Server, svc *grimoire.Service) {
	mcp.AddTool(mcpServer, domain.CodeRedeemTool(), domain.CodeRedeemHandler(svc))
	mcp.AddTool(mcpServer, domain.CardsFilterTool(), domain.CardsFilterHandler(svc))
	mcp.AddTool(mcpServer, domain.DeckSaveTool(), domain.DeckSaveHandler(svc))
	mcp.AddTool(mcpServer, domain.DeckLoadTool(), domain.DeckLoadHandler(svc))
	mcp.AddTool(mcpServer, domain.DeckListTool(), domain.DeckListHandler(svc))
	mcp.AddTool(mcpServer, domain.DeckDeleteTool(), domain.DeckDeleteHandler(svc))
	mcp.AddTool(mcpServer, domain.ShareExportTool(), domain.ShareExportHandler(svc))
	mcp.AddTool(mcpServer, domain.ShareImportTool(), domain.ShareImportHandler(svc))
}
