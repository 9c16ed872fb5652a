package export

import (
	"sort"

	"github.com/facturante/erp/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxKey identifies one subtotal group. Withholding rows live in a disjoint
// key space via the Withholding flag, so they can never merge with a VAT or
// surcharge group carrying the same rate. A struct key also keeps tax codes
// that contain separator characters unambiguous; String reproduces the
// historical underscore-joined form for display fallbacks only.
type TaxKey struct {
	Code        string
	Rate        string
	Surcharge   string
	Withholding bool
}

func (k TaxKey) String() string {
	if k.Withholding {
		return "irpf_" + k.Rate
	}
	return k.Code + "_" + k.Rate + "_" + k.Surcharge
}

// TaxRow is one aggregated footer row. The accumulated amounts stay exact
// while grouping runs; ComputeTaxRows applies the formatter's rounding rule
// once at the very end.
type TaxRow struct {
	Key       TaxKey
	Label     string
	Base      decimal.Decimal
	Amount    decimal.Decimal
	Surcharge decimal.Decimal
}

// TaxDescriber resolves the display description of a tax code. A nil
// describer or an unresolvable code falls back to the raw key string.
type TaxDescriber interface {
	TaxDescription(code string) (string, bool)
}

// ComputeTaxRows groups document lines by tax identity and returns the
// per-group subtotal rows. Lines without a tax code, with a zero total or
// flagged as supplied never contribute to the tax base. euFactor multiplies
// every increment before accumulation. Withholding is grouped in a second,
// independent pass covering every non-supplied line with a non-zero rate,
// tax-exempt lines included, and always reduces the total, so its
// contribution is negative.
func ComputeTaxRows(lines []model.DocumentLine, euFactor decimal.Decimal, taxes TaxDescriber, f NumberFormatter) map[TaxKey]*TaxRow {
	rows := make(map[TaxKey]*TaxRow)

	for i := range lines {
		line := &lines[i]
		if skipTaxLine(line) {
			continue
		}
		key := TaxKey{
			Code:      line.TaxCode,
			Rate:      line.TaxRate.String(),
			Surcharge: line.SurchargeRate.String(),
		}
		row, ok := rows[key]
		if !ok {
			label := key.String()
			if taxes != nil {
				if desc, found := taxes.TaxDescription(line.TaxCode); found {
					label = desc
				}
			}
			row = &TaxRow{Key: key, Label: label}
			rows[key] = row
		}
		inc := line.Total.Mul(euFactor)
		row.Base = row.Base.Add(inc)
		row.Amount = row.Amount.Add(inc.Mul(line.TaxRate).Div(hundred))
		row.Surcharge = row.Surcharge.Add(inc.Mul(line.SurchargeRate).Div(hundred))
	}

	for i := range lines {
		line := &lines[i]
		if line.WithholdingRate.IsZero() || line.Total.IsZero() || line.Supplied {
			continue
		}
		key := TaxKey{Rate: line.WithholdingRate.String(), Withholding: true}
		row, ok := rows[key]
		if !ok {
			row = &TaxRow{Key: key, Label: "IRPF " + line.WithholdingRate.String() + "%"}
			rows[key] = row
		}
		inc := line.Total.Mul(euFactor)
		row.Amount = row.Amount.Sub(inc.Mul(line.WithholdingRate).Div(hundred))
	}

	for _, row := range rows {
		row.Base = f.Round(row.Base)
		row.Amount = f.Round(row.Amount)
		row.Surcharge = f.Round(row.Surcharge)
	}
	return rows
}

func skipTaxLine(line *model.DocumentLine) bool {
	return line.TaxCode == "" || line.Total.IsZero() || line.Supplied
}

// SortTaxRows returns the rows in display order: VAT/surcharge groups sorted
// by code and rate, withholding groups last. The order is independent of the
// input line order.
func SortTaxRows(rows map[TaxKey]*TaxRow) []*TaxRow {
	out := make([]*TaxRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Withholding != b.Withholding {
			return !a.Withholding
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		ra, _ := decimal.NewFromString(a.Rate)
		rb, _ := decimal.NewFromString(b.Rate)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.Surcharge < b.Surcharge
	})
	return out
}
