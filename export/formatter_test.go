package export_test

import (
	"testing"

	"github.com/facturante/erp/export"
	"github.com/shopspring/decimal"
)

func TestPlainFormatterFormat(t *testing.T) {
	f := export.PlainFormatter{}

	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"1", "1,00"},
		{"1.5", "1,50"},
		{"21", "21,00"},
		{"1234.56", "1.234,56"},
		{"1234567.891", "1.234.567,89"},
		{"-1234.5", "-1.234,50"},
		{"-0.004", "0,00"},
		{"999", "999,00"},
		{"1000", "1.000,00"},
		{"0.005", "0,01"},
	}

	for _, tt := range tests {
		got := f.Format(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainFormatterRound(t *testing.T) {
	f := export.PlainFormatter{}
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"-1.005", "-1.01"},
		{"2", "2"},
	}
	for _, tt := range tests {
		got := f.Round(decimal.RequireFromString(tt.in))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Round(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPlainFormatterCurrencyName(t *testing.T) {
	f := export.PlainFormatter{}
	if got := f.CurrencyName("EUR"); got != "Euro" {
		t.Errorf("CurrencyName(EUR) = %q, want Euro", got)
	}
	// unknown codes pass through untouched
	if got := f.CurrencyName("ZZZ"); got != "ZZZ" {
		t.Errorf("CurrencyName(ZZZ) = %q, want the raw code", got)
	}
	if got := f.CurrencyName(""); got != "" {
		t.Errorf("CurrencyName() = %q, want empty", got)
	}
}
