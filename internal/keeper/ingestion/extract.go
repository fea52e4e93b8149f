package ingestion

import (
	"golang-verdict-keeper/internal/entity"
	"golang-verdict-keeper/pkg/common"
)

// JSONPath selectors for every projected column, parsed once. Lookups
// through these are total: a missing key, a null, or a wrong-shaped
// subtree (for example trade_plan as an array) yields an absent field,
// never an error.
var (
	pathTicker               = mustPath("$.ticker")
	pathAssetType            = mustPath("$.asset_type")
	pathStatus               = mustPath("$.status")
	pathErrorMessage         = mustPath("$.error")
	pathTradeStyle           = mustPath("$.trade_style")
	pathAccountSize          = mustPath("$.account_size")
	pathRiskPercent          = mustPath("$.risk_percent")
	pathResolvedTicker       = mustPath("$.resolved_ticker")
	pathResolvedTickerMethod = mustPath("$.resolved_ticker_method")
	pathInTrial              = mustPath("$.in_trial")
	pathRunsRemaining        = mustPath("$.runs_remaining")
	pathDailyRunsRemaining   = mustPath("$.daily_runs_remaining")

	pathShouldTrade         = mustPath("$.trade_plan.trade")
	pathTradeAction         = mustPath("$.trade_plan.verdict.action")
	pathTradeConfidence     = mustPath("$.trade_plan.verdict.confidence")
	pathNoTradeReason       = mustPath("$.trade_plan.no_trade_reason")
	pathEntryDirection      = mustPath("$.trade_plan.entry.direction")
	pathEntryPrice          = mustPath("$.trade_plan.entry.current_price")
	pathEntryRecommendation = mustPath("$.trade_plan.entry.recommendation")
	pathPositionQuantity    = mustPath("$.trade_plan.position.quantity")
	pathPositionUnitType    = mustPath("$.trade_plan.position.unit_type")
	pathPositionSizeRec     = mustPath("$.trade_plan.position.size_recommendation")
	pathPositionTotalCost   = mustPath("$.trade_plan.position.total_cost")
	pathPositionMaxRisk     = mustPath("$.trade_plan.position.max_risk")
	pathWildCardRisk        = mustPath("$.trade_plan.synthesis.wild_card_risk")
	pathAgentAgreement      = mustPath("$.trade_plan.synthesis.agent_agreement")

	pathMarketStatus   = mustPath("$.market_session.status")
	pathIsTradeableNow = mustPath("$.market_session.is_tradeable_now")

	pathTechnicalConfidence = mustPath("$.agent_verdicts.technical.confidence")
	pathMacroConfidence     = mustPath("$.agent_verdicts.macro.confidence")

	pathOptionSymbol       = mustPath("$.trade_plan.recommended_contract.symbol")
	pathOptionType         = mustPath("$.trade_plan.recommended_contract.type")
	pathOptionStrike       = mustPath("$.trade_plan.recommended_contract.strike")
	pathOptionExpiration   = mustPath("$.trade_plan.recommended_contract.expiration")
	pathOptionDTE          = mustPath("$.trade_plan.recommended_contract.days_to_expiration")
	pathOptionDelta        = mustPath("$.trade_plan.recommended_contract.delta")
	pathOptionMidPrice     = mustPath("$.trade_plan.recommended_contract.mid_price")
	pathOptionVolume       = mustPath("$.trade_plan.recommended_contract.volume")
	pathOptionOpenInterest = mustPath("$.trade_plan.recommended_contract.open_interest")
)

// extractFields projects the parsed document onto the entity columns.
func extractFields(doc any, file *entity.AnalysisFile) {
	file.Ticker = stringAt(doc, pathTicker)
	file.AssetType = stringAt(doc, pathAssetType)
	file.Status = stringAt(doc, pathStatus)
	file.ErrorMessage = stringAt(doc, pathErrorMessage)
	file.TradeStyle = stringAt(doc, pathTradeStyle)
	file.AccountSize = floatAt(doc, pathAccountSize)
	file.RiskPercent = floatAt(doc, pathRiskPercent)
	file.ResolvedTicker = stringAt(doc, pathResolvedTicker)
	file.ResolvedTickerMethod = stringAt(doc, pathResolvedTickerMethod)
	file.InTrial = boolAt(doc, pathInTrial)
	file.RunsRemaining = intAt(doc, pathRunsRemaining)
	file.DailyRunsRemaining = intAt(doc, pathDailyRunsRemaining)

	file.ShouldTrade = boolAt(doc, pathShouldTrade)
	file.TradeAction = stringAt(doc, pathTradeAction)
	file.TradeConfidenceText = stringAt(doc, pathTradeConfidence)
	file.TradeConfidencePct = confidencePct(file.TradeConfidenceText)
	file.NoTradeReason = stringAt(doc, pathNoTradeReason)
	file.EntryDirection = stringAt(doc, pathEntryDirection)
	file.EntryPrice = floatAt(doc, pathEntryPrice)
	file.EntryRecommendation = stringAt(doc, pathEntryRecommendation)
	file.PositionQuantity = intAt(doc, pathPositionQuantity)
	file.PositionUnitType = stringAt(doc, pathPositionUnitType)
	file.PositionSizeRecommendation = stringAt(doc, pathPositionSizeRec)
	file.PositionTotalCostText = stringAt(doc, pathPositionTotalCost)
	file.PositionMaxRiskText = stringAt(doc, pathPositionMaxRisk)
	file.WildCardRisk = stringAt(doc, pathWildCardRisk)
	file.AgentAgreement = stringAt(doc, pathAgentAgreement)

	file.MarketStatus = stringAt(doc, pathMarketStatus)
	file.IsTradeableNow = boolAt(doc, pathIsTradeableNow)

	file.TechnicalConfidence = floatAt(doc, pathTechnicalConfidence)
	file.MacroConfidence = floatAt(doc, pathMacroConfidence)

	// Contract fields only apply to OPTIONS documents; other asset types
	// leave them absent even when a recommended_contract block exists.
	if file.AssetType != nil && *file.AssetType == common.AssetTypeOptions {
		file.OptionContractSymbol = stringAt(doc, pathOptionSymbol)
		file.OptionContractType = stringAt(doc, pathOptionType)
		file.OptionStrike = floatAt(doc, pathOptionStrike)
		file.OptionExpiration = stringAt(doc, pathOptionExpiration)
		file.OptionDaysToExpiration = intAt(doc, pathOptionDTE)
		file.OptionDelta = floatAt(doc, pathOptionDelta)
		file.OptionMidPrice = floatAt(doc, pathOptionMidPrice)
		file.OptionVolume = intAt(doc, pathOptionVolume)
		file.OptionOpenInterest = intAt(doc, pathOptionOpenInterest)
	}
}
