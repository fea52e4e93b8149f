package ingestion

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestFile(t *testing.T) {
	content := `{"ticker": "AAPL", "asset_type": "EQUITY", "trade_plan": {"trade": true, "verdict": {"action": "BUY", "confidence": "85% confidence - strong momentum"}}}`
	path := writeFile(t, t.TempDir(), "verdict.json", content)

	file, err := IngestFile(path)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(file.FilePath))
	assert.Equal(t, HashContent([]byte(content)), file.ContentHash)
	assert.Len(t, file.ContentHash, 64)
	assert.Equal(t, content, string(file.JSONContent))

	require.NotNil(t, file.Ticker)
	assert.Equal(t, "AAPL", *file.Ticker)
	require.NotNil(t, file.AssetType)
	assert.Equal(t, "EQUITY", *file.AssetType)
	require.NotNil(t, file.ShouldTrade)
	assert.True(t, *file.ShouldTrade)
	require.NotNil(t, file.TradeAction)
	assert.Equal(t, "BUY", *file.TradeAction)
	require.NotNil(t, file.TradeConfidenceText)
	assert.Equal(t, "85% confidence - strong momentum", *file.TradeConfidenceText)
	require.NotNil(t, file.TradeConfidencePct)
	assert.Equal(t, 85.0, *file.TradeConfidencePct)

	// Fields the document does not carry stay absent.
	assert.Nil(t, file.NoTradeReason)
	assert.Nil(t, file.EntryPrice)
	assert.Nil(t, file.OptionContractSymbol)

	require.NotNil(t, file.FileModifiedAt)
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.NotNil(t, file.FileCreatedAt)
	}
	// IngestedAt belongs to the store, not the extractor.
	assert.True(t, file.IngestedAt.IsZero())
}

func TestIngestFileFullExtraction(t *testing.T) {
	content := `{
		"ticker": "NVDA",
		"asset_type": "EQUITY",
		"status": "complete",
		"error": null,
		"trade_style": "swing",
		"account_size": "50000",
		"risk_percent": 2,
		"in_trial": false,
		"runs_remaining": "5",
		"daily_runs_remaining": 3,
		"resolved_ticker": "NVDA",
		"resolved_ticker_method": "exact",
		"market_session": {"status": "open", "is_tradeable_now": true},
		"agent_verdicts": {
			"technical": {"confidence": 80},
			"macro": {"confidence": "65.5"}
		},
		"trade_plan": {
			"trade": false,
			"no_trade_reason": "earnings in two days",
			"verdict": {"action": "HOLD", "confidence": "40%"},
			"entry": {"direction": "long", "current_price": 128.44, "recommendation": "wait for pullback"},
			"position": {
				"quantity": 10.9,
				"unit_type": "shares",
				"size_recommendation": "quarter size",
				"total_cost": "$1,284.40",
				"max_risk": "$64.22"
			},
			"synthesis": {"wild_card_risk": "keynote on Tuesday", "agent_agreement": "2 of 3 agree"}
		}
	}`
	path := writeFile(t, t.TempDir(), "full.json", content)

	file, err := IngestFile(path)
	require.NoError(t, err)

	require.NotNil(t, file.Status)
	assert.Equal(t, "complete", *file.Status)
	assert.Nil(t, file.ErrorMessage) // null stays absent
	assert.Equal(t, "swing", *file.TradeStyle)
	assert.Equal(t, 50000.0, *file.AccountSize)
	assert.Equal(t, 2.0, *file.RiskPercent)
	require.NotNil(t, file.InTrial)
	assert.False(t, *file.InTrial)
	assert.Equal(t, int64(5), *file.RunsRemaining)
	assert.Equal(t, int64(3), *file.DailyRunsRemaining)
	assert.Equal(t, "NVDA", *file.ResolvedTicker)
	assert.Equal(t, "exact", *file.ResolvedTickerMethod)
	assert.Equal(t, "open", *file.MarketStatus)
	require.NotNil(t, file.IsTradeableNow)
	assert.True(t, *file.IsTradeableNow)
	assert.Equal(t, 80.0, *file.TechnicalConfidence)
	assert.Equal(t, 65.5, *file.MacroConfidence)

	require.NotNil(t, file.ShouldTrade)
	assert.False(t, *file.ShouldTrade)
	assert.Equal(t, "earnings in two days", *file.NoTradeReason)
	assert.Equal(t, "HOLD", *file.TradeAction)
	assert.Equal(t, 40.0, *file.TradeConfidencePct)
	assert.Equal(t, "long", *file.EntryDirection)
	assert.Equal(t, 128.44, *file.EntryPrice)
	assert.Equal(t, "wait for pullback", *file.EntryRecommendation)
	assert.Equal(t, int64(10), *file.PositionQuantity) // truncated
	assert.Equal(t, "shares", *file.PositionUnitType)
	assert.Equal(t, "quarter size", *file.PositionSizeRecommendation)
	assert.Equal(t, "$1,284.40", *file.PositionTotalCostText)
	assert.Equal(t, "$64.22", *file.PositionMaxRiskText)
	assert.Equal(t, "keynote on Tuesday", *file.WildCardRisk)
	assert.Equal(t, "2 of 3 agree", *file.AgentAgreement)
}

func TestIngestFileOptionsContract(t *testing.T) {
	contract := `{
		"symbol": "AAPL240119C00190000",
		"type": "call",
		"strike": 190,
		"expiration": "2024-01-19",
		"days_to_expiration": 30,
		"delta": 0.42,
		"mid_price": 3.15,
		"volume": 1200,
		"open_interest": 5400
	}`

	t.Run("extracted for OPTIONS documents", func(t *testing.T) {
		content := `{"ticker": "AAPL", "asset_type": "OPTIONS", "trade_plan": {"recommended_contract": ` + contract + `}}`
		file, err := IngestFile(writeFile(t, t.TempDir(), "options.json", content))
		require.NoError(t, err)

		require.NotNil(t, file.OptionContractSymbol)
		assert.Equal(t, "AAPL240119C00190000", *file.OptionContractSymbol)
		assert.Equal(t, "call", *file.OptionContractType)
		assert.Equal(t, 190.0, *file.OptionStrike)
		assert.Equal(t, "2024-01-19", *file.OptionExpiration)
		assert.Equal(t, int64(30), *file.OptionDaysToExpiration)
		assert.Equal(t, 0.42, *file.OptionDelta)
		assert.Equal(t, 3.15, *file.OptionMidPrice)
		assert.Equal(t, int64(1200), *file.OptionVolume)
		assert.Equal(t, int64(5400), *file.OptionOpenInterest)
	})

	t.Run("ignored for other asset types", func(t *testing.T) {
		content := `{"ticker": "AAPL", "asset_type": "EQUITY", "trade_plan": {"recommended_contract": ` + contract + `}}`
		file, err := IngestFile(writeFile(t, t.TempDir(), "equity.json", content))
		require.NoError(t, err)

		assert.Nil(t, file.OptionContractSymbol)
		assert.Nil(t, file.OptionStrike)
		assert.Nil(t, file.OptionVolume)
	})

	t.Run("ignored when asset type is missing", func(t *testing.T) {
		content := `{"trade_plan": {"recommended_contract": ` + contract + `}}`
		file, err := IngestFile(writeFile(t, t.TempDir(), "untyped.json", content))
		require.NoError(t, err)

		assert.Nil(t, file.AssetType)
		assert.Nil(t, file.OptionContractSymbol)
	})
}

func TestIngestFileToleratesWrongShapes(t *testing.T) {
	t.Run("scalar and array subtrees", func(t *testing.T) {
		content := `{"ticker": 123, "trade_plan": ["not", "a", "map"], "market_session": "closed"}`
		file, err := IngestFile(writeFile(t, t.TempDir(), "shapes.json", content))
		require.NoError(t, err)

		assert.Nil(t, file.Ticker)
		assert.Nil(t, file.ShouldTrade)
		assert.Nil(t, file.TradeAction)
		assert.Nil(t, file.MarketStatus)
	})

	t.Run("verdict as scalar", func(t *testing.T) {
		content := `{"trade_plan": {"verdict": "BUY"}}`
		file, err := IngestFile(writeFile(t, t.TempDir(), "scalar.json", content))
		require.NoError(t, err)

		assert.Nil(t, file.TradeAction)
		assert.Nil(t, file.TradeConfidenceText)
	})

	t.Run("top-level array", func(t *testing.T) {
		content := `[1, 2, 3]`
		file, err := IngestFile(writeFile(t, t.TempDir(), "array.json", content))
		require.NoError(t, err)

		assert.Nil(t, file.Ticker)
		assert.Equal(t, content, string(file.JSONContent))
	})
}

func TestIngestFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := IngestFile(filepath.Join(dir, "nope.json"))
		var ingErr *Error
		require.ErrorAs(t, err, &ingErr)
		assert.Equal(t, KindNotFound, ingErr.Kind)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := IngestFile(dir)
		var ingErr *Error
		require.ErrorAs(t, err, &ingErr)
		assert.Equal(t, KindInvalidInput, ingErr.Kind)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", `{"ticker":`)
		_, err := IngestFile(path)
		var ingErr *Error
		require.ErrorAs(t, err, &ingErr)
		assert.Equal(t, KindParseFailure, ingErr.Kind)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.json", "")
		_, err := IngestFile(path)
		var ingErr *Error
		require.ErrorAs(t, err, &ingErr)
		assert.Equal(t, KindParseFailure, ingErr.Kind)
	})

	t.Run("non-utf8 content", func(t *testing.T) {
		path := filepath.Join(dir, "latin1.json")
		require.NoError(t, os.WriteFile(path, []byte{'{', 0xff, 0xfe, '}'}, 0o644))
		_, err := IngestFile(path)
		var ingErr *Error
		require.ErrorAs(t, err, &ingErr)
		assert.Equal(t, KindReadFailure, ingErr.Kind)
	})

	t.Run("error carries the given path", func(t *testing.T) {
		_, err := IngestFile("relative-missing.json")
		var ingErr *Error
		require.ErrorAs(t, err, &ingErr)
		assert.Equal(t, "relative-missing.json", ingErr.Path)
	})
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"ticker": "AAPL"}`)
	bad := writeFile(t, dir, "bad.json", `{"ticker":`)

	assert.True(t, ValidateFile(good))
	assert.False(t, ValidateFile(bad))
	assert.False(t, ValidateFile(filepath.Join(dir, "missing.json")))
}
