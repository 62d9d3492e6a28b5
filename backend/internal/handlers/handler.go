// Package handlers is the HTTP boundary. Payload envelopes follow a fixed
// contract: {"success":true,"data":{...}} on success and
// {"success":false,"error":{"code":...,"message":...}} on failure.
package handlers

import (
	"go.uber.org/zap"

	"github.com/user/papertrade/backend/internal/auth"
	"github.com/user/papertrade/backend/internal/catalog"
	"github.com/user/papertrade/backend/internal/engine"
	"github.com/user/papertrade/backend/internal/ledger"
	"github.com/user/papertrade/backend/internal/stream"
	"github.com/user/papertrade/backend/internal/valuation"
)

// Handler carries the injected collaborators for every route.
type Handler struct {
	Catalog   *catalog.Catalog
	Store     *ledger.Store
	Engine    *engine.Engine
	Valuation *valuation.Service
	Sessions  *auth.Sessions
	Demo      auth.Credentials
	Quotes    *stream.Hub
	Logger    *zap.Logger
}

// New wires a handler set.
func New(cat *catalog.Catalog, store *ledger.Store, eng *engine.Engine, val *valuation.Service,
	sessions *auth.Sessions, demo auth.Credentials, quotes *stream.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog:   cat,
		Store:     store,
		Engine:    eng,
		Valuation: val,
		Sessions:  sessions,
		Demo:      demo,
		Quotes:    quotes,
		Logger:    logger,
	}
}
