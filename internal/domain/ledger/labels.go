package ledger

// Label returns the display label for a movement type.
func (t Type) Label() string {
	switch t {
	case TypeIn:
		return "Inbound"
	case TypeOut:
		return "Outbound"
	case TypeAdjust:
		return "Adjustment"
	case TypeReturn:
		return "Return"
	}
	return string(t)
}

// Label returns the display label for a movement reason.
func (r Reason) Label() string {
	switch r {
	case ReasonPurchase:
		return "Purchase"
	case ReasonSale:
		return "Sale"
	case ReasonDamage:
		return "Damage"
	case ReasonLoss:
		return "Loss"
	case ReasonCount:
		return "Stock count"
	case ReasonReturn:
		return "Return"
	case ReasonOther:
		return "Other"
	}
	return string(r)
}
