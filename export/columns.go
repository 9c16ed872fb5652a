package export

import (
	"sort"

	"github.com/facturante/erp/model"
	"github.com/shopspring/decimal"
)

// ColumnKind is the closed set of column-descriptor variants. The line-items
// table never reflects on the configuration per row; everything is resolved
// once before rendering begins.
type ColumnKind string

const (
	ColumnText       ColumnKind = "text"
	ColumnNumber     ColumnKind = "number"
	ColumnPercentage ColumnKind = "percentage"
	ColumnGroup      ColumnKind = "group"
)

// Column is one resolved, visible line-items column.
type Column struct {
	Kind  ColumnKind
	Field string
	Title string
}

// Align returns the table justification for the column: numeric and
// percentage columns right, text columns left.
func (c Column) Align() string {
	if c.Kind == ColumnNumber || c.Kind == ColumnPercentage {
		return "R"
	}
	return "L"
}

// ResolveColumns flattens a format's column configuration into the ordered
// leaf columns. Hidden widgets are excluded; group columns recurse into
// their children.
func ResolveColumns(cols []model.FormatColumn) []Column {
	byParent := make(map[uint][]model.FormatColumn)
	for _, c := range cols {
		byParent[c.ParentID] = append(byParent[c.ParentID], c)
	}
	for _, list := range byParent {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Position < list[j].Position
		})
	}
	return resolveLevel(byParent, 0)
}

func resolveLevel(byParent map[uint][]model.FormatColumn, parent uint) []Column {
	var out []Column
	for _, c := range byParent[parent] {
		if c.Hidden {
			continue
		}
		if ColumnKind(c.Kind) == ColumnGroup {
			out = append(out, resolveLevel(byParent, c.ID)...)
			continue
		}
		out = append(out, Column{Kind: ColumnKind(c.Kind), Field: c.Field, Title: c.Title})
	}
	return out
}

// DefaultColumns is the column set used when a document format carries no
// configuration of its own.
func DefaultColumns() []Column {
	return []Column{
		{Kind: ColumnText, Field: "reference", Title: "Reference"},
		{Kind: ColumnText, Field: "description", Title: "Description"},
		{Kind: ColumnNumber, Field: "quantity", Title: "Qty"},
		{Kind: ColumnNumber, Field: "price", Title: "Price"},
		{Kind: ColumnPercentage, Field: "discount", Title: "Disc."},
		{Kind: ColumnPercentage, Field: "tax", Title: "Tax"},
		{Kind: ColumnNumber, Field: "total", Title: "Total"},
	}
}

// LineValue renders one line field for the given column. Suppressed
// quantities and prices show as "-", like any other missing reference.
func LineValue(line *model.DocumentLine, col Column, f NumberFormatter) string {
	switch col.Field {
	case "reference":
		return line.Reference
	case "description":
		return line.Description
	case "quantity":
		if line.HideQuantity {
			return "-"
		}
		return line.Quantity.String()
	case "price":
		if line.HidePrice {
			return "-"
		}
		return f.Format(line.UnitPrice)
	case "discount":
		return percent(line.Discount)
	case "discount2":
		return percent(line.Discount2)
	case "tax":
		return percent(line.TaxRate)
	case "surcharge":
		return percent(line.SurchargeRate)
	case "withholding":
		return percent(line.WithholdingRate)
	case "total":
		if line.HidePrice {
			return "-"
		}
		return f.Format(line.Total)
	}
	return ""
}

func percent(d decimal.Decimal) string {
	return d.String() + "%"
}
