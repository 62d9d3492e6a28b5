// Package valuation derives current value, invested value and P&L for
// holdings from catalog prices. It never mutates state.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/user/papertrade/backend/internal/catalog"
	"github.com/user/papertrade/backend/internal/ledger"
	"github.com/user/papertrade/backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Service values holdings against the instrument catalog.
type Service struct {
	catalog *catalog.Catalog
	store   *ledger.Store
}

// New wires a valuation service to its catalog and store.
func New(cat *catalog.Catalog, store *ledger.Store) *Service {
	return &Service{catalog: cat, store: store}
}

// ValueHolding enriches a holding with current-price valuation. If the symbol
// is somehow absent from the catalog the holding's own average price is used,
// so valuation degrades to a flat position instead of failing.
// Only the percentage is rounded (to 2 decimal places, for display); every
// other figure stays exact.
func (s *Service) ValueHolding(h models.Holding) models.EnrichedHolding {
	currentPrice := h.AveragePrice
	if inst, ok := s.catalog.BySymbol(h.Symbol); ok {
		currentPrice = inst.LastTradedPrice
	}

	qty := decimal.NewFromInt(h.Quantity)
	currentValue := qty.Mul(currentPrice)
	investedValue := qty.Mul(h.AveragePrice)
	profitLoss := currentValue.Sub(investedValue)

	pct := decimal.Zero
	if investedValue.IsPositive() {
		pct = profitLoss.Div(investedValue).Mul(hundred).Round(2)
	}

	return models.EnrichedHolding{
		Holding:              h,
		CurrentPrice:         currentPrice,
		CurrentValue:         currentValue,
		InvestedValue:        investedValue,
		ProfitLoss:           profitLoss,
		ProfitLossPercentage: pct,
	}
}

// ValuePortfolio values every holding of the user and aggregates the totals.
// The summary sums the unrounded per-holding values; the total percentage is
// derived last and rounded at the edge.
func (s *Service) ValuePortfolio(userID string) ([]models.EnrichedHolding, models.PortfolioSummary) {
	holdings := s.store.Holdings(userID)

	enriched := make([]models.EnrichedHolding, 0, len(holdings))
	summary := models.PortfolioSummary{
		TotalInvestment:           decimal.Zero,
		TotalCurrentValue:         decimal.Zero,
		TotalProfitLoss:           decimal.Zero,
		TotalProfitLossPercentage: decimal.Zero,
	}
	for _, h := range holdings {
		eh := s.ValueHolding(h)
		enriched = append(enriched, eh)
		summary.TotalInvestment = summary.TotalInvestment.Add(eh.InvestedValue)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(eh.CurrentValue)
		summary.TotalProfitLoss = summary.TotalProfitLoss.Add(eh.ProfitLoss)
	}
	if summary.TotalInvestment.IsPositive() {
		summary.TotalProfitLossPercentage = summary.TotalProfitLoss.Div(summary.TotalInvestment).Mul(hundred).Round(2)
	}

	return enriched, summary
}

// HoldingBySymbol returns a single enriched holding, matched case-insensitively.
func (s *Service) HoldingBySymbol(userID, symbol string) (models.EnrichedHolding, bool) {
	h, ok := s.store.HoldingBySymbol(userID, symbol)
	if !ok {
		return models.EnrichedHolding{}, false
	}
	return s.ValueHolding(h), true
}
