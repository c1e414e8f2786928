package catalog_test

import (
	"errors"
	"testing"

	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/domain"
)

func TestLookup_Known(t *testing.T) {
	c := catalog.Default()

	at, err := c.Lookup("recycle")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if at.Points != 15 {
		t.Errorf("recycle points = %d, want 15", at.Points)
	}
	if at.Category != domain.CategoryRecycle {
		t.Errorf("recycle category = %s, want recycle", at.Category)
	}
}

func TestLookup_Unknown(t *testing.T) {
	c := catalog.Default()

	_, err := c.Lookup("teleport")
	if !errors.Is(err, domain.ErrActionTypeNotFound) {
		t.Errorf("expected ErrActionTypeNotFound, got %v", err)
	}
}

func TestList_StableDeclarationOrder(t *testing.T) {
	c := catalog.Default()

	first := c.List()
	second := c.List()
	if len(first) != 8 {
		t.Fatalf("expected 8 types, got %d", len(first))
	}
	if first[0].ID != "recycle" || first[7].ID != "compost" {
		t.Errorf("declaration order not preserved: %s ... %s", first[0].ID, first[7].ID)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatal("re-iteration produced a different order")
		}
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	c := catalog.Default()

	mutated := c.List()
	mutated[0].Points = 9999

	at, _ := c.Lookup("recycle")
	if at.Points != 15 {
		t.Error("mutating the listed slice must not affect the catalog")
	}
}

func TestDefault_PositivePointsUniqueIDs(t *testing.T) {
	c := catalog.Default()

	seen := make(map[string]bool)
	for _, at := range c.List() {
		if at.Points <= 0 {
			t.Errorf("%s has non-positive point value %d", at.ID, at.Points)
		}
		if seen[at.ID] {
			t.Errorf("duplicate id %s", at.ID)
		}
		seen[at.ID] = true
	}
}
