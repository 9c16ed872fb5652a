package model_test

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/facturante/erp/fixtures"
	"github.com/facturante/erp/model"
)

func TestEnsureDefaultFormat(t *testing.T) {
	store := fixtures.NewTestStore(t)

	if err := store.EnsureDefaultFormat("invoice", "Invoice", fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("EnsureDefaultFormat failed: %v", err)
	}

	f, err := store.LoadFormatForType("invoice", fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadFormatForType failed: %v", err)
	}
	if f.Title != "Invoice" || f.Orientation != "P" {
		t.Errorf("format = %q/%q, want Invoice/P", f.Title, f.Orientation)
	}
	if len(f.Columns) != 7 {
		t.Fatalf("columns = %d, want 7", len(f.Columns))
	}
	for i, c := range f.Columns {
		if c.Position != i {
			t.Errorf("column %d position = %d", i, c.Position)
		}
	}

	// a second call never touches the existing format
	f.Title = "Factura"
	if err := store.SaveFormat(f, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveFormat failed: %v", err)
	}
	if err := store.EnsureDefaultFormat("invoice", "Invoice", fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("second EnsureDefaultFormat failed: %v", err)
	}
	again, err := store.LoadFormatForType("invoice", fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadFormatForType failed: %v", err)
	}
	if again.Title != "Factura" {
		t.Errorf("title = %q, ensure overwrote the customization", again.Title)
	}
	if len(again.Columns) != 7 {
		t.Errorf("columns = %d after second ensure, want 7", len(again.Columns))
	}
}

func TestLoadFormatForTypeMissing(t *testing.T) {
	store := fixtures.NewTestStore(t)

	if _, err := store.LoadFormatForType("quote", fixtures.DefaultOwnerID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestFormatsAreOwnerScoped(t *testing.T) {
	store := fixtures.NewTestStore(t)

	if err := store.EnsureDefaultFormat("invoice", "Invoice", 1); err != nil {
		t.Fatalf("EnsureDefaultFormat failed: %v", err)
	}
	if _, err := store.LoadFormatForType("invoice", 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign owner loaded the format: %v", err)
	}
	if err := store.EnsureDefaultFormat("invoice", "Rechnung", 2); err != nil {
		t.Fatalf("EnsureDefaultFormat for the second owner failed: %v", err)
	}
	f, err := store.LoadFormatForType("invoice", 2)
	if err != nil {
		t.Fatalf("LoadFormatForType failed: %v", err)
	}
	if f.Title != "Rechnung" {
		t.Errorf("title = %q, want Rechnung", f.Title)
	}
}

func TestSaveFormatOwnerMismatch(t *testing.T) {
	store := fixtures.NewTestStore(t)

	f := &model.DocumentFormat{OwnerID: 1, DocType: "invoice", Title: "Invoice"}
	if err := store.SaveFormat(f, 2); err != model.ErrNotAllowed {
		t.Errorf("SaveFormat = %v, want ErrNotAllowed", err)
	}
}

func TestDeleteFormat(t *testing.T) {
	store := fixtures.NewTestStore(t)

	if err := store.EnsureDefaultFormat("order", "Order", fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("EnsureDefaultFormat failed: %v", err)
	}
	f, err := store.LoadFormatForType("order", fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadFormatForType failed: %v", err)
	}
	if err := store.DeleteFormat(f.ID, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("DeleteFormat failed: %v", err)
	}
	if _, err := store.LoadFormatForType("order", fixtures.DefaultOwnerID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("format still loadable after delete: %v", err)
	}
}
