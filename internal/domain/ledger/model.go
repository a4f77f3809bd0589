// Package ledger implements the stock movement ledger: the append-only
// history of quantity changes plus the materialized balance it produces.
package ledger

import (
	"time"

	"kardex/internal/core/id"
)

// Type is the movement type enumeration.
type Type string

const (
	TypeIn     Type = "IN"
	TypeOut    Type = "OUT"
	TypeAdjust Type = "ADJUST"
	TypeReturn Type = "RETURN"
)

// Valid reports whether t is a known movement type.
func (t Type) Valid() bool {
	switch t {
	case TypeIn, TypeOut, TypeAdjust, TypeReturn:
		return true
	}
	return false
}

// Reason is the movement reason enumeration.
type Reason string

const (
	ReasonPurchase Reason = "PURCHASE"
	ReasonSale     Reason = "SALE"
	ReasonDamage   Reason = "DAMAGE"
	ReasonLoss     Reason = "LOSS"
	ReasonCount    Reason = "COUNT"
	ReasonReturn   Reason = "RETURN"
	ReasonOther    Reason = "OTHER"
)

// Valid reports whether r is a known movement reason.
func (r Reason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonDamage, ReasonLoss, ReasonCount, ReasonReturn, ReasonOther:
		return true
	}
	return false
}

// Direction disambiguates adjustments. It is required for ADJUST and
// meaningless for every other type.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Movement is one immutable row of the ledger. Rows are never updated or
// deleted except as a consequence of deleting their owning product.
type Movement struct {
	ID        id.ID      `db:"id" json:"id"`
	Type      Type       `db:"type" json:"type"`
	Reason    Reason     `db:"reason" json:"reason"`
	Qty       int64      `db:"qty" json:"qty"`
	Direction *Direction `db:"direction" json:"direction,omitempty"`
	ProductID id.ID      `db:"product_id" json:"productId"`
	ActorID   id.ID      `db:"user_id" json:"actorId"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// Record is a movement joined with its product and actor for display.
type Record struct {
	Movement
	ProductName string `db:"product_name" json:"productName"`
	ProductUnit string `db:"product_unit" json:"productUnit"`
	Username    string `db:"username" json:"username"`
}

// Filter selects movements from the history.
// Date bounds are inclusive; callers widen date-only input with
// StartOfDay/EndOfDay before building the filter.
type Filter struct {
	Type      *Type
	ProductID *id.ID
	From      *time.Time
	To        *time.Time
}

// StartOfDay truncates t to 00:00:00 in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay widens t to 23:59:59.999 in its location, matching the
// inclusive upper bound of a date-only range.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}
