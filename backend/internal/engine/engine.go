// Package engine validates incoming order requests, drives the order
// lifecycle and, for market orders, synchronously books the trade and applies
// the fill to the user's holdings.
package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/papertrade/backend/internal/catalog"
	"github.com/user/papertrade/backend/internal/ledger"
	"github.com/user/papertrade/backend/internal/models"
)

// PlaceOrderRequest is the payload for placing an order.
type PlaceOrderRequest struct {
	Symbol     string           `json:"symbol"`
	OrderType  string           `json:"orderType"`
	OrderStyle string           `json:"orderStyle"`
	Quantity   int64            `json:"quantity"`
	Price      *decimal.Decimal `json:"price"` // required for LIMIT orders
}

// Engine executes orders against the catalog's last traded prices.
type Engine struct {
	catalog *catalog.Catalog
	store   *ledger.Store
	logger  *zap.Logger
}

// New wires an engine to its catalog and store.
func New(cat *catalog.Catalog, store *ledger.Store, logger *zap.Logger) *Engine {
	return &Engine{catalog: cat, store: store, logger: logger}
}

// PlaceOrder validates the request and, on success, creates the order,
// transitions it NEW -> PLACED and, for market orders, PLACED -> EXECUTED
// with a booked trade and an updated holding. The returned order is the
// store's state after the final transition. Failures are *ValidationError.
//
// The validation sequence is fixed: symbol presence, symbol resolution,
// order type, order style, quantity, limit price, then holdings sufficiency.
// Nothing is written before every check has passed.
func (e *Engine) PlaceOrder(userID string, req PlaceOrderRequest) (models.Order, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return models.Order{}, invalid(ReasonMissingSymbol, "Symbol is required")
	}

	inst, ok := e.catalog.BySymbol(req.Symbol)
	if !ok {
		return models.Order{}, invalid(ReasonInvalidSymbol, "Invalid symbol")
	}

	orderType, ok := models.ParseOrderType(req.OrderType)
	if !ok {
		return models.Order{}, invalid(ReasonInvalidOrderType, "Invalid orderType. Must be BUY or SELL")
	}

	orderStyle, ok := models.ParseOrderStyle(req.OrderStyle)
	if !ok {
		return models.Order{}, invalid(ReasonInvalidOrderStyle, "Invalid orderStyle. Must be MARKET or LIMIT")
	}

	if req.Quantity <= 0 {
		return models.Order{}, invalid(ReasonInvalidQuantity, "Quantity must be a positive integer")
	}

	if orderStyle == models.OrderStyleLimit && (req.Price == nil || !req.Price.IsPositive()) {
		return models.Order{}, invalid(ReasonMissingLimitPrice, "Price is required for LIMIT orders and must be positive")
	}

	if orderType == models.OrderTypeSell {
		holding, ok := e.store.HoldingBySymbol(userID, inst.Symbol)
		if !ok || holding.Quantity < req.Quantity {
			return models.Order{}, invalid(ReasonInsufficientHoldings, "Insufficient holdings for SELL order")
		}
	}

	order := models.Order{
		OrderID:            models.NewOrderID(),
		UserID:             userID,
		Symbol:             inst.Symbol,
		Exchange:           inst.Exchange,
		OrderType:          orderType,
		OrderStyle:         orderStyle,
		Quantity:           req.Quantity,
		Status:             models.OrderStatusNew,
		FilledQuantity:     0,
		AverageFilledPrice: decimal.Zero,
		CreatedAt:          time.Now().UTC(),
	}
	if orderStyle == models.OrderStyleLimit {
		p := *req.Price
		order.Price = &p
	}

	e.store.CreateOrder(order)

	// Every accepted order passes through PLACED, market or not.
	e.store.UpdateOrderStatus(order.OrderID, models.OrderStatusPlaced, nil, nil)

	if orderStyle == models.OrderStyleMarket {
		e.execute(order, inst)
	} else {
		e.logger.Info("limit order placed",
			zap.String("order_id", order.OrderID),
			zap.String("symbol", order.Symbol),
			zap.String("side", string(orderType)),
			zap.Int64("quantity", order.Quantity),
		)
	}

	placed, _ := e.store.GetOrder(order.OrderID)
	return placed, nil
}

// execute fills a market order at the instrument's last traded price.
func (e *Engine) execute(order models.Order, inst models.Instrument) {
	executionPrice := inst.LastTradedPrice
	qty := order.Quantity

	e.store.UpdateOrderStatus(order.OrderID, models.OrderStatusExecuted, &qty, &executionPrice)

	trade := models.Trade{
		TradeID:         models.NewTradeID(),
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		Symbol:          order.Symbol,
		Exchange:        order.Exchange,
		TransactionType: order.OrderType,
		Quantity:        qty,
		Price:           executionPrice,
		Timestamp:       time.Now().UTC(),
	}
	e.store.CreateTrade(trade)

	e.store.ApplyFill(order.UserID, order.Symbol, qty, executionPrice, order.OrderType == models.OrderTypeBuy)

	e.logger.Info("market order executed",
		zap.String("order_id", order.OrderID),
		zap.String("trade_id", trade.TradeID),
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.OrderType)),
		zap.Int64("quantity", qty),
		zap.String("price", executionPrice.String()),
	)
}
