package ledger_repo

import (
	"reflect"
	"testing"
	"time"

	"kardex/internal/core/id"
	"kardex/internal/domain/ledger"
)

func TestApplyFilter(t *testing.T) {
	productID := id.MustParse("0195b2c6-1111-7000-8000-000000000001")
	movType := ledger.TypeOut
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 999_000_000, time.UTC)

	tests := []struct {
		name     string
		filter   ledger.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "empty filter",
			filter:   ledger.Filter{},
			wantSQL:  "SELECT COUNT(*) FROM stock_movement m",
			wantArgs: nil,
		},
		{
			name:     "by type",
			filter:   ledger.Filter{Type: &movType},
			wantSQL:  "SELECT COUNT(*) FROM stock_movement m WHERE m.type = $1",
			wantArgs: []any{movType},
		},
		{
			name:     "by product",
			filter:   ledger.Filter{ProductID: &productID},
			wantSQL:  "SELECT COUNT(*) FROM stock_movement m WHERE m.product_id = $1",
			wantArgs: []any{productID},
		},
		{
			name:     "date window",
			filter:   ledger.Filter{From: &from, To: &to},
			wantSQL:  "SELECT COUNT(*) FROM stock_movement m WHERE m.created_at >= $1 AND m.created_at <= $2",
			wantArgs: []any{from, to},
		},
		{
			name:   "all predicates",
			filter: ledger.Filter{Type: &movType, ProductID: &productID, From: &from, To: &to},
			wantSQL: "SELECT COUNT(*) FROM stock_movement m" +
				" WHERE m.type = $1 AND m.product_id = $2 AND m.created_at >= $3 AND m.created_at <= $4",
			wantArgs: []any{movType, productID, from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := ApplyFilter(builder().Select("COUNT(*)").From("stock_movement m"), tt.filter).ToSql()
			if err != nil {
				t.Fatalf("ToSql: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql mismatch\n got: %s\nwant: %s", sql, tt.wantSQL)
			}
			if len(args) == 0 && len(tt.wantArgs) == 0 {
				return
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args mismatch\n got: %v\nwant: %v", args, tt.wantArgs)
			}
		})
	}
}
