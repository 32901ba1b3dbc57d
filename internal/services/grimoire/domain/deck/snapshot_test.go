package deck

import (
	"reflect"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 3, "ember", "starweave")
	s = SetQuantity(cat, s, "holy1", 2)
	s = SetQuantity(cat, s, "light2", 3)

	data, err := NewSnapshot(s, "midnight pact").Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Name != "midnight pact" || decoded.Version != SnapshotVersion {
		t.Fatalf("unexpected snapshot header %+v", decoded)
	}

	restored := Rehydrate(cat, decoded)
	if restored.RankCap != s.RankCap {
		t.Fatalf("expected rank cap %d, got %d", s.RankCap, restored.RankCap)
	}
	if !reflect.DeepEqual(restored.Basics, s.Basics) {
		t.Fatalf("basics mismatch: %v vs %v", restored.Basics, s.Basics)
	}
	if !reflect.DeepEqual(restored.Chosen, s.Chosen) {
		t.Fatalf("chosen mismatch: %v vs %v", restored.Chosen, s.Chosen)
	}
	if !reflect.DeepEqual(restored.Entries, s.Entries) {
		t.Fatalf("entries mismatch: %v vs %v", restored.Entries, s.Entries)
	}
}

func TestRehydrateDefaultsAndDrops(t *testing.T) {
	cat := testCatalog(t)
	snapshot := Snapshot{
		Version: SnapshotVersion,
		RankCap: 9,
		Basics:  []string{"focus", "vanished", "ember"},
		Chosen:  []string{"ember", "vanished", "focus"},
		Entries: map[string]int{
			"holy1": 99,
			"gone":  2,
			"light1": -1,
		},
	}

	s := Rehydrate(cat, snapshot)
	if s.RankCap != RankMin {
		t.Fatalf("expected defaulted rank cap, got %d", s.RankCap)
	}
	if _, ok := s.Basics["ember"]; ok {
		t.Fatal("expected non-basic slug dropped from basics")
	}
	if _, ok := s.Chosen["focus"]; ok {
		t.Fatal("expected basic slug dropped from chosen")
	}
	if _, ok := s.Chosen["vanished"]; ok {
		t.Fatal("expected unknown slug dropped")
	}
	if s.Quantity("holy1") != 4 {
		t.Fatalf("expected quantity clamped to max copies, got %d", s.Quantity("holy1"))
	}
	if _, ok := s.Entries["gone"]; ok {
		t.Fatal("expected unknown card dropped")
	}
	if _, ok := s.Entries["light1"]; ok {
		t.Fatal("expected non-positive quantity dropped")
	}
	checkInvariants(t, cat, s)
}

func TestRehydrateTruncatesToQuotas(t *testing.T) {
	cat := testCatalog(t)
	snapshot := Snapshot{
		Version: SnapshotVersion,
		RankCap: 5,
		Basics:  []string{"focus"},
		Chosen:  []string{"ember", "tide"},
		Entries: map[string]int{
			"holy1":   4,
			"light1":  24,
			"light3":  10,
			"dark1":   2,
			"dark2":   2,
			"astral1": 9,
		},
	}

	s := Rehydrate(cat, snapshot)
	if s.Quantity("light1") != 24 {
		t.Fatalf("light1 = %d, want 24", s.Quantity("light1"))
	}
	if _, ok := s.Entries["light3"]; ok {
		t.Fatal("expected light3 truncated by the exhausted light quota")
	}
	if s.Quantity("dark1") != 2 {
		t.Fatalf("dark1 = %d, want 2", s.Quantity("dark1"))
	}
	if _, ok := s.Entries["dark2"]; ok {
		t.Fatal("expected dark2 truncated by the exhausted dark quota")
	}
	if s.Quantity("astral1") != 7 {
		t.Fatalf("astral1 = %d, want 7", s.Quantity("astral1"))
	}
	checkInvariants(t, cat, s)
}

func TestDecodeSnapshotCorrupt(t *testing.T) {
	if _, err := DecodeSnapshot([]byte("{not json")); err == nil {
		t.Fatal("expected error for corrupt payload")
	}
}

func TestDecodeSnapshotIgnoresUnknownFields(t *testing.T) {
	payload := []byte(`{"version":1,"name":"n","rank_cap":2,"mystery":true,"entries":{"holy1":1}}`)
	snapshot, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snapshot.RankCap != 2 || snapshot.Entries["holy1"] != 1 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestSnapshotSortsSelectionSets(t *testing.T) {
	cat := testCatalog(t)
	s := openState(t, cat, 1, "tide", "ember")

	snapshot := NewSnapshot(s, "")
	if len(snapshot.Chosen) != 2 || snapshot.Chosen[0] != "ember" || snapshot.Chosen[1] != "tide" {
		t.Fatalf("expected sorted chosen slugs, got %v", snapshot.Chosen)
	}
}
