package models

import (
	"strconv"
	"strings"
	"time"
)

// SessionState represents the lifecycle state of a user session
type SessionState string

const (
	StateInitial              SessionState = "initial"
	StatePointSelected        SessionState = "point_selected"
	StateAwaitingConfirmation SessionState = "awaiting_confirmation"
	StateEditing              SessionState = "editing"
)

// IsValid checks if the session state is valid
func (s SessionState) IsValid() bool {
	switch s {
	case StateInitial, StatePointSelected, StateAwaitingConfirmation, StateEditing:
		return true
	default:
		return false
	}
}

// PartnerPoint represents an authenticated retail point
type PartnerPoint struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	PIN     string `json:"pin"`
}

// Product represents one nomenclature entry.
// Variable is the normalized identifier used in extracted order data
// and ledger columns.
type Product struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Variable string `json:"variable"`
}

// ColumnHeader returns the ledger column title for this product
func (p Product) ColumnHeader() string {
	return p.Name + " (" + p.Unit + ")"
}

// OrderData holds the structured order extracted from user text:
// the "address" and "date" fields plus integer quantities keyed by
// product variable name.
type OrderData map[string]interface{}

// Address returns the order's address field, empty when absent
func (o OrderData) Address() string {
	if v, ok := o["address"].(string); ok {
		return v
	}
	return ""
}

// SetAddress stores the address copied from the authenticated point
func (o OrderData) SetAddress(addr string) { o["address"] = addr }

// SetDate stamps the order with a server-assigned timestamp
func (o OrderData) SetDate(t time.Time) { o["date"] = t.Format(time.RFC3339) }

// Quantity returns the integer quantity stored under variable,
// defaulting to 0 when the field is absent or not a usable number.
func (o OrderData) Quantity(variable string) int {
	v, ok := o[variable]
	if !ok {
		return 0
	}
	return coerceQuantity(v)
}

// TotalUnits sums every quantity field, skipping address and date
func (o OrderData) TotalUnits() int {
	total := 0
	for key, v := range o {
		if key == "address" || key == "date" {
			continue
		}
		total += coerceQuantity(v)
	}
	return total
}

func coerceQuantity(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Session is the per-user conversation state persisted in the session store
type Session struct {
	State         SessionState  `json:"state"`
	SelectedPoint *PartnerPoint `json:"selectedPoint"`
	OrderData     OrderData     `json:"orderData"`
	RawResponse   string        `json:"rawResponse,omitempty"`
}

// DefaultSession returns the session every unknown user starts from
func DefaultSession() Session {
	return Session{State: StateInitial, SelectedPoint: nil, OrderData: nil}
}

// Normalize resets the session to the default whenever its structure
// violates the state invariants: SelectedPoint is required in every state
// except initial, and OrderData may only exist while a confirmation is
// pending or being edited.
func (s *Session) Normalize() {
	if !s.State.IsValid() {
		*s = DefaultSession()
		return
	}
	if s.State != StateInitial && s.SelectedPoint == nil {
		*s = DefaultSession()
		return
	}
	if s.State != StateAwaitingConfirmation && s.State != StateEditing {
		s.OrderData = nil
		s.RawResponse = ""
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AdminLoginRequest represents an admin login request
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// CatalogSummary describes the active catalog snapshot for the admin API
type CatalogSummary struct {
	Points   int       `json:"points"`
	Products []Product `json:"products"`
	LoadedAt time.Time `json:"loaded_at"`
}
