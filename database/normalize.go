package database

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// normalizeValue turns driver values into JSON-friendly chart cells.
// Text arrives as []byte from some drivers; Postgres numeric columns become
// decimals so no precision is lost before charting.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case pgtype.Numeric:
		if !x.Valid || x.NaN || x.InfinityModifier != pgtype.Finite || x.Int == nil {
			return nil
		}
		return decimal.NewFromBigInt(x.Int, x.Exp)
	default:
		return v
	}
}
