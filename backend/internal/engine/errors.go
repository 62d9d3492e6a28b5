package engine

// Reason identifies which validation rule rejected an order request.
type Reason string

const (
	ReasonMissingSymbol        Reason = "MISSING_SYMBOL"
	ReasonInvalidSymbol        Reason = "INVALID_SYMBOL"
	ReasonInvalidOrderType     Reason = "INVALID_ORDER_TYPE"
	ReasonInvalidOrderStyle    Reason = "INVALID_ORDER_STYLE"
	ReasonInvalidQuantity      Reason = "INVALID_QUANTITY"
	ReasonMissingLimitPrice    Reason = "MISSING_LIMIT_PRICE"
	ReasonInsufficientHoldings Reason = "INSUFFICIENT_HOLDINGS"
)

// ValidationError is a typed rejection of an order request. It is returned,
// never panicked, and maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(reason Reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}
