package deck

import "testing"

func TestToggleAspectSelectsAndDeselects(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1)

	next, applied := ToggleAspect(cat, s, "ember")
	if !applied {
		t.Fatal("expected ember toggle to apply")
	}
	if _, ok := next.Chosen["ember"]; !ok {
		t.Fatal("expected ember chosen")
	}

	next, applied = ToggleAspect(cat, next, "ember")
	if !applied {
		t.Fatal("expected deselect to apply")
	}
	if _, ok := next.Chosen["ember"]; ok {
		t.Fatal("expected ember deselected")
	}
}

func TestDeselectClearsAspectEntries(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1, "ember")
	s.Entries["holy2"] = 3
	s.Entries["holy1"] = 2

	next, applied := ToggleAspect(cat, s, "ember")
	if !applied {
		t.Fatal("expected deselect to apply")
	}
	if next.Quantity("holy2") != 0 {
		t.Fatalf("expected ember entries cleared, got %d", next.Quantity("holy2"))
	}
	if next.Quantity("holy1") != 2 {
		t.Fatalf("expected focus entries untouched, got %d", next.Quantity("holy1"))
	}
	checkInvariants(t, cat, next)
}

func TestDeselectBasicClearsEntries(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1)
	s.Entries["holy1"] = 4

	next, applied := ToggleAspect(cat, s, "focus")
	if !applied {
		t.Fatal("expected basic deselect to apply")
	}
	if _, ok := next.Basics["focus"]; ok {
		t.Fatal("expected basic deselected")
	}
	if next.Quantity("holy1") != 0 {
		t.Fatal("expected basic aspect entries cleared")
	}
}

func TestSelectRequiresEligibilityAndUnlock(t *testing.T) {
	cat := testCatalog(t)

	locked := NewState("focus")
	if _, applied := ToggleAspect(cat, locked, "ember"); applied {
		t.Fatal("expected locked aspect toggle refused")
	}

	ineligible := openState(t, cat, 1)
	if _, applied := ToggleAspect(cat, ineligible, "tide"); applied {
		t.Fatal("expected ineligible aspect toggle refused")
	}

	ineligible.RankCap = 2
	if _, applied := ToggleAspect(cat, ineligible, "tide"); !applied {
		t.Fatal("expected eligible unlocked aspect toggle to apply")
	}
}

func TestThirdStandardAspectRefused(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 2, "ember", "tide")

	next, applied := ToggleAspect(cat, s, "gloom")
	if applied {
		t.Fatal("expected third non-trio aspect refused")
	}
	if _, ok := next.Chosen["gloom"]; ok {
		t.Fatal("expected state unchanged after refusal")
	}
}

func TestDarkTrioCompletion(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1)

	var applied bool
	s, applied = ToggleAspect(cat, s, "gloom")
	if !applied {
		t.Fatal("expected first dark aspect to apply")
	}
	s, applied = ToggleAspect(cat, s, "dread")
	if !applied {
		t.Fatal("expected second dark aspect to apply")
	}

	// A standard aspect at the boundary would make three without
	// completing the trio.
	if _, applied = ToggleAspect(cat, s, "ember"); applied {
		t.Fatal("expected standard aspect refused at two dark aspects")
	}

	s, applied = ToggleAspect(cat, s, "murk")
	if !applied {
		t.Fatal("expected trio completion to apply")
	}
	if len(s.Chosen) != 3 {
		t.Fatalf("expected three chosen aspects, got %d", len(s.Chosen))
	}

	// The trio is the maximum: nothing further may join.
	if _, applied = ToggleAspect(cat, s, "ember"); applied {
		t.Fatal("expected fourth aspect refused after trio")
	}
}

func TestMixedStandardAndDarkAtBoundaryRefused(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1, "ember", "gloom")

	// Candidate is dark, but the union would not be the complete trio.
	if _, applied := ToggleAspect(cat, s, "dread"); applied {
		t.Fatal("expected mixed standard+dark 2+1 combination refused")
	}
	if _, applied := ToggleAspect(cat, s, "tide"); applied {
		t.Fatal("expected standard candidate refused at boundary")
	}
}

func TestSpecialAspectNeverCounts(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1, "ember", "gloom")

	next, applied := ToggleAspect(cat, s, "starweave")
	if !applied {
		t.Fatal("expected special aspect toggle to apply at capacity")
	}
	if _, applied = ToggleAspect(cat, next, "tide"); applied {
		t.Fatal("expected special selection not to open extra capacity")
	}
}

func TestIneligibleChosenDoesNotCount(t *testing.T) {
	cat := testCatalog(t)
	// tide requires rank 2; at cap 1 it is selected but ineligible.
	s := openState(t, cat, 1, "tide", "ember")

	if _, applied := ToggleAspect(cat, s, "gloom"); !applied {
		t.Fatal("expected slot freed by ineligible chosen aspect")
	}
}

func TestToggleUnderOverrideBypassesLimits(t *testing.T) {
	cat := testCatalog(t)
	s := NewState("focus")
	s.OverrideAll = true

	for _, slug := range []string{"ember", "gloom", "dread", "murk", "tide"} {
		next, applied := ToggleAspect(cat, s, slug)
		if !applied {
			t.Fatalf("expected override toggle of %q to apply", slug)
		}
		s = next
	}
	if len(s.Chosen) != 5 {
		t.Fatalf("expected 5 chosen aspects under override, got %d", len(s.Chosen))
	}

	s.Entries["holy2"] = 2
	next, applied := ToggleAspect(cat, s, "ember")
	if !applied {
		t.Fatal("expected override deselect to apply")
	}
	if _, ok := next.Chosen["ember"]; ok {
		t.Fatal("expected ember deselected under override")
	}
	if _, ok := next.Entries["holy2"]; ok {
		t.Fatal("expected ember entries cleared on deselect")
	}
}

func TestToggleUnknownAspect(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1)
	if _, applied := ToggleAspect(cat, s, "void"); applied {
		t.Fatal("expected unknown aspect toggle refused")
	}
}

func TestAspectCountInvariant(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1)

	slugs := []string{"ember", "gloom", "dread", "murk", "tide", "starweave", "ember", "gloom"}
	for _, slug := range slugs {
		s, _ = ToggleAspect(cat, s, slug)
		active := activeChosen(cat, s)
		if len(active) > 3 {
			t.Fatalf("active count %d exceeds maximum", len(active))
		}
		if len(active) == 3 {
			for _, aspect := range active {
				if !aspect.Dark {
					t.Fatalf("three active aspects include non-dark %s", aspect.Slug)
				}
			}
		}
	}
}
