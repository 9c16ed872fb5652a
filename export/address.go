package export

import (
	"strings"

	"github.com/biter777/countries"
)

// Address holds the postal fields of a party or contact the way the composer
// needs them. Every field is optional.
type Address struct {
	Street      string
	Apartment   string
	Zip         string
	City        string
	Province    string
	CountryCode string
}

// ComposeAddress builds a newline-delimited postal address. Empty fields are
// skipped so that no dangling separators are left behind; an unresolvable
// country code is omitted rather than reported.
func ComposeAddress(a Address) string {
	var lines []string

	street := strings.TrimSpace(a.Street)
	if ap := strings.TrimSpace(a.Apartment); ap != "" {
		if street != "" {
			street += ", box " + ap
		} else {
			street = "box " + ap
		}
	}
	if street != "" {
		lines = append(lines, street)
	}

	var second string
	if zip := strings.TrimSpace(a.Zip); zip != "" {
		second = zip
	}
	if city := strings.TrimSpace(a.City); city != "" {
		if second != "" {
			second += ", " + city
		} else {
			second = city
		}
	}
	if prov := strings.TrimSpace(a.Province); prov != "" {
		if second != "" {
			second += " (" + prov + ")"
		} else {
			second = "(" + prov + ")"
		}
	}
	if name := CountryName(a.CountryCode); name != "" {
		if second != "" {
			second += ", " + name
		} else {
			second = name
		}
	}
	if second != "" {
		lines = append(lines, second)
	}

	return strings.Join(lines, "\n")
}

// CountryName resolves a country code or name to its display name, or ""
// when it cannot be resolved.
func CountryName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	c := countries.ByName(code)
	if c == countries.Unknown {
		return ""
	}
	return c.String()
}
