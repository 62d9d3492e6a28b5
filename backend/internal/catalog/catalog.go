package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/user/papertrade/backend/internal/models"
)

// Catalog holds the static instrument reference data. It is seeded once and
// never mutated, so reads need no locking.
type Catalog struct {
	instruments []models.Instrument
	bySymbol    map[string]int // uppercase symbol -> index
	byID        map[string]int
}

// New builds a catalog from the given instruments, preserving their order.
func New(instruments []models.Instrument) *Catalog {
	c := &Catalog{
		instruments: make([]models.Instrument, len(instruments)),
		bySymbol:    make(map[string]int, len(instruments)),
		byID:        make(map[string]int, len(instruments)),
	}
	copy(c.instruments, instruments)
	for i, inst := range c.instruments {
		c.bySymbol[strings.ToUpper(inst.Symbol)] = i
		c.byID[inst.ID] = i
	}
	return c
}

// NewDefault returns the catalog seeded with the demo instrument universe.
func NewDefault() *Catalog {
	price := decimal.RequireFromString
	return New([]models.Instrument{
		{ID: "INS001", Symbol: "RELIANCE", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("2450.50")},
		{ID: "INS002", Symbol: "TCS", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("3890.75")},
		{ID: "INS003", Symbol: "INFY", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("1567.25")},
		{ID: "INS004", Symbol: "HDFCBANK", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("1678.00")},
		{ID: "INS005", Symbol: "ICICIBANK", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("1245.30")},
		{ID: "INS006", Symbol: "SBIN", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("825.40")},
		{ID: "INS007", Symbol: "BHARTIARTL", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("1456.80")},
		{ID: "INS008", Symbol: "ITC", Exchange: models.ExchangeNSE, InstrumentType: "EQUITY", LastTradedPrice: price("465.25")},
		{ID: "INS009", Symbol: "KOTAKBANK", Exchange: models.ExchangeBSE, InstrumentType: "EQUITY", LastTradedPrice: price("1789.50")},
		{ID: "INS010", Symbol: "LT", Exchange: models.ExchangeBSE, InstrumentType: "EQUITY", LastTradedPrice: price("3456.00")},
	})
}

// ListAll returns every instrument in insertion order.
func (c *Catalog) ListAll() []models.Instrument {
	out := make([]models.Instrument, len(c.instruments))
	copy(out, c.instruments)
	return out
}

// BySymbol looks up an instrument by symbol, case-insensitively.
func (c *Catalog) BySymbol(symbol string) (models.Instrument, bool) {
	i, ok := c.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return models.Instrument{}, false
	}
	return c.instruments[i], true
}

// ByID looks up an instrument by its identifier.
func (c *Catalog) ByID(id string) (models.Instrument, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Instrument{}, false
	}
	return c.instruments[i], true
}
