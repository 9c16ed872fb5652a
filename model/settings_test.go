package model_test

import (
	"testing"

	"github.com/facturante/erp/fixtures"
	"github.com/facturante/erp/model"
)

func TestLoadSettingsInitializesEmptyRecord(t *testing.T) {
	store := fixtures.NewTestStore(t)

	set, err := store.LoadSettings(fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if set.ID != 0 || set.CompanyName != "" {
		t.Errorf("expected an empty in-memory record, got id %d name %q", set.ID, set.CompanyName)
	}
}

func TestSaveLoadSettings(t *testing.T) {
	store := fixtures.NewTestStore(t)

	set := fixtures.Settings()
	if err := store.SaveSettings(set); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := store.LoadSettings(fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.CompanyName != "Facturante SL" {
		t.Errorf("company = %q", loaded.CompanyName)
	}
	if loaded.BankIBAN != "ES9121000418450200051332" {
		t.Errorf("iban = %q", loaded.BankIBAN)
	}

	loaded.Phone = "+34 910 000 000"
	if err := store.UpdateSettings(loaded); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	again, err := store.LoadSettings(fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if again.Phone != "+34 910 000 000" {
		t.Errorf("phone = %q after update", again.Phone)
	}
	if again.CompanyName != "Facturante SL" {
		t.Errorf("company = %q, update clobbered it", again.CompanyName)
	}
}

func TestCarrierByCode(t *testing.T) {
	store := fixtures.NewTestStore(t)

	c := &model.Carrier{OwnerID: fixtures.DefaultOwnerID, Code: "SEUR", Name: "SEUR"}
	if err := store.SaveCarrier(c, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveCarrier failed: %v", err)
	}

	got, ok := store.CarrierByCode("SEUR", fixtures.DefaultOwnerID)
	if !ok || got.Name != "SEUR" {
		t.Fatalf("CarrierByCode = %+v, %v", got, ok)
	}
	if _, ok := store.CarrierByCode("", fixtures.DefaultOwnerID); ok {
		t.Error("empty code resolved a carrier")
	}
	if _, ok := store.CarrierByCode("NOPE", fixtures.DefaultOwnerID); ok {
		t.Error("unknown code resolved a carrier")
	}
	if _, ok := store.CarrierByCode("SEUR", 2); ok {
		t.Error("foreign owner resolved the carrier")
	}
}
