package export_test

import (
	"strings"
	"testing"

	"github.com/facturante/erp/export"
)

func TestComposeAddress(t *testing.T) {
	full := export.Address{
		Street:      "Calle Mayor 1",
		Apartment:   "4B",
		Zip:         "28001",
		City:        "Madrid",
		Province:    "Madrid",
		CountryCode: "ES",
	}

	tests := []struct {
		name string
		addr export.Address
		want string
	}{
		{
			name: "all fields",
			addr: full,
			want: "Calle Mayor 1, box 4B\n28001, Madrid (Madrid), Spain",
		},
		{
			name: "no apartment",
			addr: export.Address{Street: "Calle Mayor 1", Zip: "28001", City: "Madrid", Province: "Madrid", CountryCode: "ES"},
			want: "Calle Mayor 1\n28001, Madrid (Madrid), Spain",
		},
		{
			name: "no street",
			addr: export.Address{Apartment: "4B", Zip: "28001", City: "Madrid", CountryCode: "ES"},
			want: "box 4B\n28001, Madrid, Spain",
		},
		{
			name: "no zip",
			addr: export.Address{Street: "Calle Mayor 1", City: "Madrid", Province: "Madrid", CountryCode: "ES"},
			want: "Calle Mayor 1\nMadrid (Madrid), Spain",
		},
		{
			name: "no city",
			addr: export.Address{Street: "Calle Mayor 1", Zip: "28001", Province: "Madrid", CountryCode: "ES"},
			want: "Calle Mayor 1\n28001 (Madrid), Spain",
		},
		{
			name: "no province",
			addr: export.Address{Street: "Calle Mayor 1", Zip: "28001", City: "Madrid", CountryCode: "ES"},
			want: "Calle Mayor 1\n28001, Madrid, Spain",
		},
		{
			name: "unresolvable country is omitted",
			addr: export.Address{Street: "Calle Mayor 1", Zip: "28001", City: "Madrid", CountryCode: "XX"},
			want: "Calle Mayor 1\n28001, Madrid",
		},
		{
			name: "only country",
			addr: export.Address{CountryCode: "ES"},
			want: "Spain",
		},
		{
			name: "empty address",
			addr: export.Address{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := export.ComposeAddress(tt.addr)
			if got != tt.want {
				t.Errorf("ComposeAddress = %q, want %q", got, tt.want)
			}
		})
	}
}

// Omitting any single field never leaves a dangling separator behind.
func TestComposeAddress_NoDanglingSeparators(t *testing.T) {
	variants := []export.Address{
		{Apartment: "4B", Zip: "28001", City: "Madrid", Province: "Madrid", CountryCode: "ES"},
		{Street: "Calle Mayor 1", Zip: "28001", City: "Madrid", Province: "Madrid", CountryCode: "ES"},
		{Street: "Calle Mayor 1", Apartment: "4B", City: "Madrid", Province: "Madrid", CountryCode: "ES"},
		{Street: "Calle Mayor 1", Apartment: "4B", Zip: "28001", Province: "Madrid", CountryCode: "ES"},
		{Street: "Calle Mayor 1", Apartment: "4B", Zip: "28001", City: "Madrid", CountryCode: "ES"},
		{Street: "Calle Mayor 1", Apartment: "4B", Zip: "28001", City: "Madrid", Province: "Madrid"},
	}

	for _, addr := range variants {
		got := export.ComposeAddress(addr)
		for _, line := range strings.Split(got, "\n") {
			if line != strings.TrimSpace(line) {
				t.Errorf("line %q has surrounding whitespace", line)
			}
			if strings.HasPrefix(line, ",") || strings.HasSuffix(line, ",") {
				t.Errorf("line %q has a dangling comma", line)
			}
			if strings.Contains(line, ", ,") || strings.Contains(line, ",,") {
				t.Errorf("line %q has an empty segment", line)
			}
		}
	}
}

func TestCountryName(t *testing.T) {
	if got := export.CountryName("ES"); got != "Spain" {
		t.Errorf("CountryName(ES) = %q, want Spain", got)
	}
	if got := export.CountryName("XX"); got != "" {
		t.Errorf("CountryName(XX) = %q, want empty", got)
	}
	if got := export.CountryName(""); got != "" {
		t.Errorf("CountryName() = %q, want empty", got)
	}
}
