package controller

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xeonx/timeago"
)

type APIError struct {
	Code    string `json:"code" xml:"code"`
	Message string `json:"message" xml:"message"`
}

func apiError(code, msg string) *APIError { return &APIError{Code: code, Message: msg} }

func wantsXML(c echo.Context) bool {
	if c.QueryParam("format") == "xml" {
		return true
	}
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, "application/xml") || strings.Contains(accept, "text/xml")
}

func respond(c echo.Context, status int, v any) error {
	if wantsXML(c) {
		return c.XML(status, v)
	}
	return c.JSON(status, v)
}

var timeagoEnglish = timeago.NoMax(timeago.English)

// ---- DTOs for documents ----

type APIDocumentLine struct {
	ID          uint   `json:"id" xml:"id"`
	Position    int    `json:"position" xml:"position"`
	Reference   string `json:"reference,omitempty" xml:"reference,omitempty"`
	Description string `json:"description" xml:"description"`
	Quantity    string `json:"quantity" xml:"quantity"`
	UnitPrice   string `json:"unit_price" xml:"unit_price"`
	Discount    string `json:"discount" xml:"discount"`
	Total       string `json:"total" xml:"total"`
	TaxCode     string `json:"tax_code,omitempty" xml:"tax_code,omitempty"`
	TaxRate     string `json:"tax_rate" xml:"tax_rate"`
	Supplied    bool   `json:"supplied,omitempty" xml:"supplied,omitempty"`
}

type APIDocument struct {
	ID          uint              `json:"id" xml:"id"`
	Type        string            `json:"type" xml:"type"`
	Code        string            `json:"code" xml:"code"`
	Number      string            `json:"number,omitempty" xml:"number,omitempty"`
	Series      string            `json:"series,omitempty" xml:"series,omitempty"`
	Currency    string            `json:"currency" xml:"currency"`
	Date        time.Time         `json:"date" xml:"date"`
	PartyID     uint              `json:"party_id" xml:"party_id"`
	Net         string            `json:"net" xml:"net"`
	TaxTotal    string            `json:"tax_total" xml:"tax_total"`
	Total       string            `json:"total" xml:"total"`
	CreatedAt   time.Time         `json:"created_at" xml:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" xml:"updated_at"`
	UpdatedAgo  string            `json:"updated_ago,omitempty" xml:"updated_ago,omitempty"`
	Lines       []APIDocumentLine `json:"lines,omitempty" xml:"line,omitempty"`
}

type APIDocumentList struct {
	XMLName    struct{}      `json:"-" xml:"documents"`
	Items      []APIDocument `json:"items" xml:"document"`
	NextCursor string        `json:"next_cursor,omitempty" xml:"next_cursor,omitempty"`
}
