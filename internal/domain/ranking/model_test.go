package ranking

import "testing"

func TestEntryKey(t *testing.T) {
	e := Entry{Rank: 1, PlayerName: "Rodri", Nationality: "Spain", Clubs: "Manchester City", Year: 2024}
	if got := e.Key(); got != "1-Rodri" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestListClone(t *testing.T) {
	var empty List
	if empty.Clone() != nil {
		t.Fatalf("clone of nil list must stay nil")
	}

	src := List{{Rank: 1, PlayerName: "A"}, {Rank: 2, PlayerName: "B"}}
	dst := src.Clone()
	dst[0].PlayerName = "changed"
	if src[0].PlayerName != "A" {
		t.Fatalf("clone must not share backing array")
	}

	zero := List{}.Clone()
	if zero == nil || len(zero) != 0 {
		t.Fatalf("clone of empty list must stay non-nil and empty")
	}
}
