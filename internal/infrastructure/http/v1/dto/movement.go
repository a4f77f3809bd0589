package dto

import (
	"time"

	"kardex/internal/domain/ledger"
)

// MovementRequest for applying a stock movement.
type MovementRequest struct {
	Type      string `json:"type" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Qty       int64  `json:"qty" binding:"required"`
	Direction string `json:"direction" binding:"omitempty,oneof=IN OUT"`
	ProductID string `json:"productId" binding:"required,uuid"`
}

// MovementFilterRequest narrows movement listings. Dates are inclusive
// calendar days in YYYY-MM-DD form.
type MovementFilterRequest struct {
	PaginationRequest
	Type      string `form:"type"`
	ProductID string `form:"productId" binding:"omitempty,uuid"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// MovementResponse is the movement wire shape, joined with product and
// actor names for display.
type MovementResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	TypeLabel   string    `json:"typeLabel"`
	Reason      string    `json:"reason"`
	ReasonLabel string    `json:"reasonLabel"`
	Qty         int64     `json:"qty"`
	Direction   *string   `json:"direction,omitempty"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	ProductUnit string    `json:"productUnit"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromRecord converts a joined ledger record.
func FromRecord(r ledger.Record) MovementResponse {
	resp := MovementResponse{
		ID:          r.ID.String(),
		Type:        string(r.Type),
		TypeLabel:   r.Type.Label(),
		Reason:      string(r.Reason),
		ReasonLabel: r.Reason.Label(),
		Qty:         r.Qty,
		ProductID:   r.ProductID.String(),
		ProductName: r.ProductName,
		ProductUnit: r.ProductUnit,
		Username:    r.Username,
		CreatedAt:   r.CreatedAt,
	}
	if r.Direction != nil {
		d := string(*r.Direction)
		resp.Direction = &d
	}
	return resp
}

// FromRecords converts a slice of joined ledger records.
func FromRecords(items []ledger.Record) []MovementResponse {
	out := make([]MovementResponse, 0, len(items))
	for _, r := range items {
		out = append(out, FromRecord(r))
	}
	return out
}
