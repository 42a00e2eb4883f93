package espn

import (
	"slices"
	"testing"
)

// Baseball id 6 is the guard case for the two id spaces: as a position it is
// SS, as a lineup slot it is MI.
func TestBaseballIDSpacesAreDisjoint(t *testing.T) {
	maps, ok := MapsFor("baseball")
	if !ok {
		t.Fatal("no baseball maps")
	}
	if got := maps.PositionName("baseball", 6); got != "SS" {
		t.Errorf("position 6: want SS, got %s", got)
	}
	if got := maps.SlotName("baseball", 6); got != "MI" {
		t.Errorf("slot 6: want MI, got %s", got)
	}
}

func TestUnknownIDFallbacks(t *testing.T) {
	maps, _ := MapsFor("football")
	if got := maps.PositionName("football", 99); got != "POS_99" {
		t.Errorf("want POS_99, got %s", got)
	}
	if got := maps.SlotName("football", 99); got != "SLOT_99" {
		t.Errorf("want SLOT_99, got %s", got)
	}
	if got := maps.ProTeamName(9999); got != "FA" {
		t.Errorf("want FA, got %s", got)
	}
	if got := maps.StatName(9999); got != "STAT_9999" {
		t.Errorf("want STAT_9999, got %s", got)
	}
}

// Baseball slots 18, 21 and 22 have no stable meaning upstream, so eligible
// position lists drop them instead of showing SLOT_n noise.
func TestEligiblePositionsDropsUnmappedSlots(t *testing.T) {
	maps, _ := MapsFor("baseball")
	got := maps.EligiblePositions([]int{0, 6, 18, 21, 22})
	want := []string{"C", "MI"}
	if !slices.Equal(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestSlotsForPosition(t *testing.T) {
	baseball, _ := MapsFor("baseball")
	got := baseball.SlotsForPosition("OUTFIELD")
	want := []int{5, 8, 9, 10}
	if !slices.Equal(got, want) {
		t.Errorf("OUTFIELD: want %v, got %v", want, got)
	}

	if slots := baseball.SlotsForPosition("NOT_A_POSITION"); slots != nil {
		t.Errorf("unknown position should fall back to ALL (nil), got %v", slots)
	}

	football, _ := MapsFor("football")
	if got := football.SlotsForPosition("FLEX"); !slices.Equal(got, []int{23}) {
		t.Errorf("FLEX: want [23], got %v", got)
	}
}

func TestEverySportHasCompleteMaps(t *testing.T) {
	for _, sport := range []string{"football", "baseball", "basketball", "hockey"} {
		maps, ok := MapsFor(sport)
		if !ok {
			t.Fatalf("no maps for %s", sport)
		}
		if maps.GameID == "" {
			t.Errorf("%s: empty game id", sport)
		}
		if len(maps.Positions) == 0 || len(maps.LineupSlots) == 0 || len(maps.ProTeams) == 0 {
			t.Errorf("%s: incomplete tables", sport)
		}
		if _, ok := maps.PositionSlots["ALL"]; !ok {
			t.Errorf("%s: missing ALL position filter", sport)
		}
	}
}
