package services

import (
	"encoding/json"
	"testing"
)

func TestDraftSetMergesFields(t *testing.T) {
	store := NewMemoryDraftStore()

	if _, err := store.Set(1, json.RawMessage(`{"fullName":"A"}`)); err != nil {
		t.Fatalf("set fullName: %v", err)
	}
	draft, err := store.Set(1, json.RawMessage(`{"age":"30"}`))
	if err != nil {
		t.Fatalf("set age: %v", err)
	}

	if draft.FullName != "A" {
		t.Errorf("fullName = %q, want %q (merge must keep earlier fields)", draft.FullName, "A")
	}
	if draft.Age != "30" {
		t.Errorf("age = %q, want %q", draft.Age, "30")
	}
}

func TestDraftSurvivesAcrossReads(t *testing.T) {
	store := NewMemoryDraftStore()

	if _, err := store.Set(7, json.RawMessage(`{"checkIn":"2025-04-01","totalPrice":220}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	draft, err := store.Get(7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if draft.CheckIn != "2025-04-01" {
		t.Errorf("checkIn = %q, want 2025-04-01", draft.CheckIn)
	}
	if draft.TotalPrice != 220 {
		t.Errorf("totalPrice = %v, want 220", draft.TotalPrice)
	}
}

func TestDraftClearResetsEverything(t *testing.T) {
	store := NewMemoryDraftStore()

	if _, err := store.Set(3, json.RawMessage(`{"fullName":"A","age":"30","paymentMethod":"PayPal","totalPrice":400}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(3); err != nil {
		t.Fatalf("clear: %v", err)
	}

	draft, err := store.Get(3)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if draft != (BookingDraft{}) {
		t.Errorf("draft after clear = %+v, want all defaults", draft)
	}
}

func TestDraftsAreScopedPerUser(t *testing.T) {
	store := NewMemoryDraftStore()

	if _, err := store.Set(1, json.RawMessage(`{"fullName":"A"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	other, err := store.Get(2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other.FullName != "" {
		t.Errorf("user 2 sees user 1's draft: %+v", other)
	}
}
