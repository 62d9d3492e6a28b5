package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exchange identifies the venue an instrument is listed on.
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

// OrderType is the direction of an order.
type OrderType string

const (
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// ParseOrderType accepts any casing and returns the canonical uppercase form.
func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderTypeBuy:
		return OrderTypeBuy, true
	case OrderTypeSell:
		return OrderTypeSell, true
	default:
		return "", false
	}
}

// OrderStyle distinguishes market from limit orders.
type OrderStyle string

const (
	OrderStyleMarket OrderStyle = "MARKET"
	OrderStyleLimit  OrderStyle = "LIMIT"
)

// ParseOrderStyle accepts any casing and returns the canonical uppercase form.
func ParseOrderStyle(s string) (OrderStyle, bool) {
	switch OrderStyle(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStyleMarket:
		return OrderStyleMarket, true
	case OrderStyleLimit:
		return OrderStyleLimit, true
	default:
		return "", false
	}
}

// OrderStatus is the order lifecycle state.
// NEW -> PLACED happens on every accepted order; PLACED -> EXECUTED only for
// market orders. CANCELLED is declared for forward compatibility but nothing
// currently transitions into it.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusExecuted  OrderStatus = "EXECUTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Instrument is a static reference record. Instruments are seeded at startup
// and never mutated; LastTradedPrice is the only price source for market
// execution and valuation.
type Instrument struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Exchange        Exchange        `json:"exchange"`
	InstrumentType  string          `json:"instrumentType"`
	LastTradedPrice decimal.Decimal `json:"lastTradedPrice"`
}

// Order represents a user's request to buy or sell an instrument.
type Order struct {
	OrderID            string           `json:"orderId"`
	UserID             string           `json:"userId"`
	Symbol             string           `json:"symbol"`
	Exchange           Exchange         `json:"exchange"`
	OrderType          OrderType        `json:"orderType"`
	OrderStyle         OrderStyle       `json:"orderStyle"`
	Quantity           int64            `json:"quantity"`
	Price              *decimal.Decimal `json:"price"` // set only for LIMIT orders
	Status             OrderStatus      `json:"status"`
	FilledQuantity     int64            `json:"filledQuantity"`
	AverageFilledPrice decimal.Decimal  `json:"averageFilledPrice"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// Clone returns a copy that shares no pointers with the receiver, so callers
// never alias a store-owned record.
func (o Order) Clone() Order {
	if o.Price != nil {
		p := *o.Price
		o.Price = &p
	}
	return o
}

// Trade is the immutable execution record produced when a market order fills.
type Trade struct {
	TradeID         string          `json:"tradeId"`
	OrderID         string          `json:"orderId"`
	UserID          string          `json:"userId"`
	Symbol          string          `json:"symbol"`
	Exchange        Exchange        `json:"exchange"`
	TransactionType OrderType       `json:"transactionType"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Holding is a user's current position in a symbol. Quantity stays positive
// while the record exists; a fully liquidated holding is removed, never kept
// at zero.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// EnrichedHolding is a holding decorated with current-price valuation.
type EnrichedHolding struct {
	Holding
	CurrentPrice         decimal.Decimal `json:"currentPrice"`
	CurrentValue         decimal.Decimal `json:"currentValue"`
	InvestedValue        decimal.Decimal `json:"investedValue"`
	ProfitLoss           decimal.Decimal `json:"profitLoss"`
	ProfitLossPercentage decimal.Decimal `json:"profitLossPercentage"`
}

// PortfolioSummary aggregates valuation across a user's holdings.
type PortfolioSummary struct {
	TotalInvestment           decimal.Decimal `json:"totalInvestment"`
	TotalCurrentValue         decimal.Decimal `json:"totalCurrentValue"`
	TotalProfitLoss           decimal.Decimal `json:"totalProfitLoss"`
	TotalProfitLossPercentage decimal.Decimal `json:"totalProfitLossPercentage"`
}

// NewOrderID returns a process-unique order identifier.
func NewOrderID() string { return "ORD-" + uuid.NewString() }

// NewTradeID returns a process-unique trade identifier.
func NewTradeID() string { return "TRD-" + uuid.NewString() }
