package espn

import (
	"encoding/json"
	"testing"
)

func TestClampCount(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 25},
		{-5, 25},
		{1, 1},
		{50, 50},
		{100, 100},
		{250, 100},
	}
	for _, tc := range cases {
		if got := clampCount(tc.in); got != tc.want {
			t.Errorf("clampCount(%d): want %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestBuildFreeAgentFilter(t *testing.T) {
	raw := buildFreeAgentFilter([]int{5, 8, 9, 10}, 30)

	var f map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("filter is not valid JSON: %v", err)
	}
	players, ok := f["players"]
	if !ok {
		t.Fatal("missing players key")
	}

	var status struct {
		Value []string `json:"value"`
	}
	if err := json.Unmarshal(players["filterStatus"], &status); err != nil {
		t.Fatal(err)
	}
	if len(status.Value) != 2 || status.Value[0] != "FREEAGENT" || status.Value[1] != "WAIVERS" {
		t.Errorf("want [FREEAGENT WAIVERS], got %v", status.Value)
	}

	var slots struct {
		Value []int `json:"value"`
	}
	if err := json.Unmarshal(players["filterSlotIds"], &slots); err != nil {
		t.Fatal(err)
	}
	if len(slots.Value) != 4 || slots.Value[0] != 5 {
		t.Errorf("want slot ids [5 8 9 10], got %v", slots.Value)
	}

	var limit int
	if err := json.Unmarshal(players["limit"], &limit); err != nil {
		t.Fatal(err)
	}
	if limit != 30 {
		t.Errorf("want limit 30, got %d", limit)
	}

	var sortOwned struct {
		SortPriority int  `json:"sortPriority"`
		SortAsc      bool `json:"sortAsc"`
	}
	if err := json.Unmarshal(players["sortPercOwned"], &sortOwned); err != nil {
		t.Fatal(err)
	}
	if sortOwned.SortPriority != 1 || sortOwned.SortAsc {
		t.Errorf("want ownership sort priority 1 desc, got %+v", sortOwned)
	}
}

func TestBuildFreeAgentFilterOmitsSlotsForAll(t *testing.T) {
	raw := buildFreeAgentFilter(nil, 25)
	var f map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatal(err)
	}
	if _, present := f["players"]["filterSlotIds"]; present {
		t.Error("ALL position must not send filterSlotIds")
	}
}
