package domain

import "testing"

func TestCategoriesOrder(t *testing.T) {
	t.Parallel()

	want := []Category{Character, Capacity, Capital, Collateral, Conditions}
	got := Categories()

	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCanonicalSubsetIgnoresSelectionOrder(t *testing.T) {
	t.Parallel()

	got := CanonicalSubset([]Category{Conditions, Capital})

	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0] != Capital || got[1] != Conditions {
		t.Fatalf("expected canonical order [Capital Conditions], got %v", got)
	}
}

func TestCanonicalSubsetDropsDuplicatesAndUnknowns(t *testing.T) {
	t.Parallel()

	got := CanonicalSubset([]Category{Character, Character, Category("Credit"), Capacity})

	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[0] != Character || got[1] != Capacity {
		t.Fatalf("unexpected subset: %v", got)
	}
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Fatal("known roles should be valid")
	}
	if Role("system").Valid() {
		t.Fatal("unknown role should be invalid")
	}
}
