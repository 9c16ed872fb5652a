// controller/api_document.go
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/facturante/erp/model"
	"github.com/go-playground/form/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func (ctrl *controller) apiInit(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.Use(ctrl.APIKeyAuthMiddleware())

	api.POST("/tokens", ctrl.apiCreateToken)
	api.DELETE("/tokens/:id", ctrl.apiRevokeToken)

	api.GET("/documents", ctrl.apiDocumentList)
	api.GET("/documents/:id", ctrl.apiDocumentGet)
}

type documentListQuery struct {
	Type    string `form:"type"`
	PartyID uint   `form:"party_id"`
	Limit   int    `form:"limit"`
	Cursor  string `form:"cursor"`
	Sort    string `form:"sort"`
}

func (ctrl *controller) apiDocumentList(c echo.Context) error {
	ownerID := apiOwnerID(c)
	var q documentListQuery
	dec := form.NewDecoder()
	if err := dec.Decode(&q, c.QueryParams()); err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_query", "invalid query params"))
	}
	docs, next, err := ctrl.model.ListDocuments(ownerID, model.DocumentListQuery{
		Type:    q.Type,
		PartyID: q.PartyID,
		Limit:   q.Limit,
		Cursor:  q.Cursor,
		Sort:    q.Sort,
	})
	if err != nil {
		return respond(c, http.StatusInternalServerError, apiError("db_error", "could not load documents"))
	}

	items := make([]APIDocument, len(docs))
	for i := range docs {
		items[i] = toAPIDocument(&docs[i], false)
	}
	return respond(c, http.StatusOK, APIDocumentList{Items: items, NextCursor: next})
}

func (ctrl *controller) apiDocumentGet(c echo.Context) error {
	ownerID := apiOwnerID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid id"))
	}
	doc, err := ctrl.model.LoadDocument(uint(id), ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, http.StatusNotFound, apiError("not_found", "document not found"))
		}
		return respond(c, http.StatusInternalServerError, apiError("db_error", "could not load document"))
	}

	out := toAPIDocument(doc, true)

	// optional: ETag for caching
	c.Response().Header().Set("ETag",
		`W/"doc-`+strconv.FormatUint(uint64(doc.ID), 10)+
			`-`+strconv.FormatInt(doc.UpdatedAt.Unix(), 10)+`"`)

	return respond(c, http.StatusOK, out)
}

func toAPIDocument(doc *model.Document, withLines bool) APIDocument {
	out := APIDocument{
		ID:         doc.ID,
		Type:       string(doc.Type),
		Code:       doc.Code,
		Number:     doc.Number,
		Series:     doc.Series,
		Currency:   doc.Currency,
		Date:       doc.Date,
		PartyID:    doc.PartyID,
		Net:        doc.Net.String(),
		TaxTotal:   doc.TaxTotal.String(),
		Total:      doc.Total.String(),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		UpdatedAgo: timeagoEnglish.Format(doc.UpdatedAt),
	}
	if !withLines {
		return out
	}
	out.Lines = make([]APIDocumentLine, len(doc.Lines))
	for i, l := range doc.Lines {
		out.Lines[i] = APIDocumentLine{
			ID:          l.ID,
			Position:    l.Position,
			Reference:   l.Reference,
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   l.UnitPrice.String(),
			Discount:    l.Discount.String(),
			Total:       l.Total.String(),
			TaxCode:     l.TaxCode,
			TaxRate:     l.TaxRate.String(),
			Supplied:    l.Supplied,
		}
	}
	return out
}

type createTokenReq struct {
	Name      string     `json:"name"`
	Scope     string     `json:"scope"`
	ExpiresAt *time.Time `json:"expires_at"`
}
type createTokenResp struct {
	ID     uint   `json:"id"`
	Prefix string `json:"prefix"`
	Token  string `json:"token"` // returned exactly once
}

func (ctrl *controller) apiCreateToken(c echo.Context) error {
	var req createTokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiError("bad_request", "invalid payload"))
	}
	ownerID := apiOwnerID(c)
	token, rec, err := ctrl.model.CreateAPIToken(ownerID, req.Name, req.Scope, req.ExpiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiError("db_error", "could not create token"))
	}
	return c.JSON(http.StatusCreated, createTokenResp{
		ID: rec.ID, Prefix: rec.TokenPrefix, Token: token,
	})
}

func (ctrl *controller) apiRevokeToken(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apiError("bad_request", "invalid id"))
	}
	if err := ctrl.model.RevokeAPIToken(apiOwnerID(c), uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, apiError("db_error", "could not revoke token"))
	}
	return c.NoContent(http.StatusNoContent)
}
