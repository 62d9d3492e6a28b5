// Package ledger is the in-memory system of record for orders, trades and
// holdings. It is pure keyed storage: no business rules live here beyond the
// weighted-average-cost arithmetic of ApplyFill.
package ledger

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/user/papertrade/backend/internal/models"
)

// Store owns all mutable state for the process lifetime. Each section has its
// own RWMutex so writers to one aggregate kind never block readers of another.
// Every accessor returns copies; callers never alias store-owned records.
type Store struct {
	ordersMu sync.RWMutex
	orders   map[string]models.Order
	orderIDs []string // insertion order

	tradesMu sync.RWMutex
	trades   map[string]models.Trade
	tradeIDs []string

	holdingsMu sync.RWMutex
	holdings   map[string][]models.Holding // userID -> positions
}

// New returns an empty store.
func New() *Store {
	return &Store{
		orders:   make(map[string]models.Order),
		trades:   make(map[string]models.Trade),
		holdings: make(map[string][]models.Holding),
	}
}

// SeedHoldings installs a user's starting positions, replacing any existing ones.
func (s *Store) SeedHoldings(userID string, positions []models.Holding) {
	s.holdingsMu.Lock()
	defer s.holdingsMu.Unlock()
	hs := make([]models.Holding, len(positions))
	copy(hs, positions)
	s.holdings[userID] = hs
}

// CreateOrder stores a new order record.
func (s *Store) CreateOrder(o models.Order) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	if _, exists := s.orders[o.OrderID]; !exists {
		s.orderIDs = append(s.orderIDs, o.OrderID)
	}
	s.orders[o.OrderID] = o.Clone()
}

// GetOrder returns the order with the given id, if present.
func (s *Store) GetOrder(id string) (models.Order, bool) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, false
	}
	return o.Clone(), true
}

// ListOrdersForUser returns the user's orders in creation order.
func (s *Store) ListOrdersForUser(userID string) []models.Order {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	out := make([]models.Order, 0)
	for _, id := range s.orderIDs {
		if o := s.orders[id]; o.UserID == userID {
			out = append(out, o.Clone())
		}
	}
	return out
}

// UpdateOrderStatus transitions an order's status. FilledQty and filledPrice
// are partial updates: a nil pointer leaves the prior value unchanged. Returns
// the post-transition snapshot.
func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus, filledQty *int64, filledPrice *decimal.Decimal) (models.Order, bool) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, false
	}
	o.Status = status
	if filledQty != nil {
		o.FilledQuantity = *filledQty
	}
	if filledPrice != nil {
		o.AverageFilledPrice = *filledPrice
	}
	s.orders[id] = o
	return o.Clone(), true
}

// CreateTrade stores a new trade record.
func (s *Store) CreateTrade(t models.Trade) {
	s.tradesMu.Lock()
	defer s.tradesMu.Unlock()
	if _, exists := s.trades[t.TradeID]; !exists {
		s.tradeIDs = append(s.tradeIDs, t.TradeID)
	}
	s.trades[t.TradeID] = t
}

// GetTrade returns the trade with the given id, if present.
func (s *Store) GetTrade(id string) (models.Trade, bool) {
	s.tradesMu.RLock()
	defer s.tradesMu.RUnlock()
	t, ok := s.trades[id]
	return t, ok
}

// ListTradesForUser returns the user's trades in creation order.
func (s *Store) ListTradesForUser(userID string) []models.Trade {
	s.tradesMu.RLock()
	defer s.tradesMu.RUnlock()
	out := make([]models.Trade, 0)
	for _, id := range s.tradeIDs {
		if t := s.trades[id]; t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// Holdings returns the user's current positions. Unknown users get an empty
// slice, never nil.
func (s *Store) Holdings(userID string) []models.Holding {
	s.holdingsMu.RLock()
	defer s.holdingsMu.RUnlock()
	hs := s.holdings[userID]
	out := make([]models.Holding, len(hs))
	copy(out, hs)
	return out
}

// HoldingBySymbol finds a single position by symbol, case-insensitively.
func (s *Store) HoldingBySymbol(userID, symbol string) (models.Holding, bool) {
	s.holdingsMu.RLock()
	defer s.holdingsMu.RUnlock()
	for _, h := range s.holdings[userID] {
		if strings.EqualFold(h.Symbol, symbol) {
			return h, true
		}
	}
	return models.Holding{}, false
}

// ApplyFill applies an executed quantity at the given price to the user's
// position in symbol and returns the updated holdings.
//
// Buys recompute the weighted-average cost:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
//
// Sells decrement quantity and leave the average price unchanged; the cost
// basis of the remaining shares does not move. A position driven to zero (or
// below) is removed outright. Selling against a missing holding is a no-op:
// the caller validates sufficiency before invoking this.
func (s *Store) ApplyFill(userID, symbol string, quantity int64, price decimal.Decimal, isBuy bool) []models.Holding {
	s.holdingsMu.Lock()
	defer s.holdingsMu.Unlock()

	hs := s.holdings[userID]
	idx := -1
	for i, h := range hs {
		if h.Symbol == symbol {
			idx = i
			break
		}
	}

	qty := decimal.NewFromInt(quantity)
	if isBuy {
		if idx < 0 {
			hs = append(hs, models.Holding{Symbol: symbol, Quantity: quantity, AveragePrice: price})
		} else {
			h := hs[idx]
			oldQty := decimal.NewFromInt(h.Quantity)
			totalValue := oldQty.Mul(h.AveragePrice).Add(qty.Mul(price))
			totalQty := h.Quantity + quantity
			h.AveragePrice = totalValue.Div(decimal.NewFromInt(totalQty))
			h.Quantity = totalQty
			hs[idx] = h
		}
	} else if idx >= 0 {
		h := hs[idx]
		h.Quantity -= quantity
		if h.Quantity <= 0 {
			hs = append(hs[:idx], hs[idx+1:]...)
		} else {
			hs[idx] = h
		}
	}

	s.holdings[userID] = hs
	out := make([]models.Holding, len(hs))
	copy(out, hs)
	return out
}
