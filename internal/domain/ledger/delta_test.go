package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
)

func dir(d Direction) *Direction { return &d }

func TestDelta(t *testing.T) {
	tests := []struct {
		name      string
		typ       Type
		qty       int64
		direction *Direction
		want      int64
		wantErr   bool
	}{
		{name: "inbound adds", typ: TypeIn, qty: 10, want: 10},
		{name: "return adds", typ: TypeReturn, qty: 3, want: 3},
		{name: "outbound subtracts", typ: TypeOut, qty: 7, want: -7},
		{name: "adjust in adds", typ: TypeAdjust, qty: 5, direction: dir(DirectionIn), want: 5},
		{name: "adjust out subtracts", typ: TypeAdjust, qty: 5, direction: dir(DirectionOut), want: -5},
		{name: "adjust without direction", typ: TypeAdjust, qty: 5, wantErr: true},
		{name: "adjust with unknown direction", typ: TypeAdjust, qty: 5, direction: dir("SIDEWAYS"), wantErr: true},
		{name: "unknown type", typ: "TRANSFER", qty: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Delta(tt.typ, tt.qty, tt.direction)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, apperror.CodeInvalidMovement),
					"want InvalidMovement, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2025, 3, 14, 15, 26, 53, 123, loc)

	start := StartOfDay(ts)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), start)

	end := EndOfDay(ts)
	assert.Equal(t, time.Date(2025, 3, 14, 23, 59, 59, 999_000_000, loc), end)
}
