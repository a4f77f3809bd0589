package ledger

import (
	"kardex/internal/core/apperror"
)

// Delta maps a movement to its signed stock change. Pure, no I/O.
//
// IN and RETURN increase the balance, OUT decreases it, ADJUST follows its
// explicit direction. An adjustment without a direction and any unknown
// type fail with InvalidMovement. Adding a movement type extends this
// switch and the Label mapping, nothing else.
func Delta(t Type, qty int64, direction *Direction) (int64, error) {
	switch t {
	case TypeIn, TypeReturn:
		return qty, nil
	case TypeOut:
		return -qty, nil
	case TypeAdjust:
		if direction == nil {
			return 0, apperror.NewInvalidMovement("direction is required for adjustments")
		}
		switch *direction {
		case DirectionIn:
			return qty, nil
		case DirectionOut:
			return -qty, nil
		default:
			return 0, apperror.NewInvalidMovement("unknown adjustment direction").
				WithDetail("direction", string(*direction))
		}
	default:
		return 0, apperror.NewInvalidMovement("unknown movement type").
			WithDetail("type", string(t))
	}
}
