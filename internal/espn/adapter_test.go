package espn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

func testAdapter(t *testing.T, upstream http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	client := NewClient().WithBaseURL(srv.URL)
	return NewAdapter(client, authworker.New("http://auth.invalid"), NewPlayerDirectory(client, nil))
}

// credsAdapter backs the adapter with an auth worker that has ESPN cookies on
// file, for handlers that refuse to run without them.
func credsAdapter(t *testing.T, upstream http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/credentials/espn" {
			_ = json.NewEncoder(w).Encode(map[string]string{"swid": "{ABC}", "s2": "secret"})
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(authSrv.Close)
	client := NewClient().WithBaseURL(srv.URL)
	return NewAdapter(client, authworker.New(authSrv.URL), NewPlayerDirectory(client, nil))
}

func TestExecuteUnknownTool(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	out := a.Execute(context.Background(), "delete_league", platform.ToolParams{Sport: "football", LeagueID: "1"}, "")
	if out.Success || out.Code != platform.CodeUnknownTool {
		t.Errorf("want UNKNOWN_TOOL, got %+v", out)
	}
}

func TestExecuteRejectsUnknownSport(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	out := a.Execute(context.Background(), "get_standings", platform.ToolParams{Sport: "cricket", LeagueID: "1"}, "")
	if out.Success || out.Code != platform.CodeSportNotSupported {
		t.Errorf("want SPORT_NOT_SUPPORTED, got %+v", out)
	}
}

func TestRosterRequiresTeamID(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	out := a.Execute(context.Background(), "get_roster", platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025}, "")
	if out.Success || out.Code != platform.CodeTeamIDMissing {
		t.Errorf("want TEAM_ID_MISSING, got %+v", out)
	}
}

func TestFreeAgentsRequireCredentials(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	out := a.Execute(context.Background(), "get_free_agents", platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025}, "")
	if out.Success || out.Code != platform.CodeESPNCredentialsNotFound {
		t.Errorf("want ESPN_CREDENTIALS_NOT_FOUND, got %+v", out)
	}
}

const standingsBody = `{"teams":[
	{"id":1,"location":"Lucky","nickname":"Ducks","abbrev":"LD","record":{"overall":{"wins":4,"losses":6,"ties":0,"percentage":0.4,"pointsFor":900,"pointsAgainst":1000}}},
	{"id":2,"location":"Angry","nickname":"Badgers","abbrev":"AB","record":{"overall":{"wins":8,"losses":2,"ties":0,"percentage":0.8,"pointsFor":1200,"pointsAgainst":950}}},
	{"id":3,"location":"","nickname":"","name":"","abbrev":"T3","record":{"overall":{"wins":8,"losses":2,"ties":0,"percentage":0.8,"pointsFor":1100,"pointsAgainst":990}}}
]}`

func TestStandingsSortAndRank(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(standingsBody))
	})
	out := a.Execute(context.Background(), "get_standings", platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025}, "")
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}

	raw, _ := json.Marshal(out.Data)
	var data struct {
		Standings []struct {
			Rank     int    `json:"rank"`
			TeamID   string `json:"teamId"`
			TeamName string `json:"teamName"`
		} `json:"standings"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Standings) != 3 {
		t.Fatalf("want 3 rows, got %d", len(data.Standings))
	}
	// Teams 2 and 3 tie on win pct; stable sort keeps entry order, and the
	// 4-win team ranks last.
	if data.Standings[0].TeamID != "2" || data.Standings[1].TeamID != "3" || data.Standings[2].TeamID != "1" {
		t.Errorf("wrong order: %+v", data.Standings)
	}
	for i, row := range data.Standings {
		if row.Rank != i+1 {
			t.Errorf("row %d: want rank %d, got %d", i, i+1, row.Rank)
		}
	}
	if data.Standings[2].TeamName != "Lucky Ducks" {
		t.Errorf("want composed team name, got %q", data.Standings[2].TeamName)
	}
	if data.Standings[1].TeamName != "Team 3" {
		t.Errorf("want fallback name Team 3, got %q", data.Standings[1].TeamName)
	}
}

func TestMatchupsDefaultsToCurrentWeek(t *testing.T) {
	body := `{"status":{"currentMatchupPeriod":6},
		"teams":[{"id":1,"location":"A","nickname":"One"},{"id":2,"location":"B","nickname":"Two"}],
		"schedule":[
			{"id":30,"matchupPeriodId":5,"home":{"teamId":1,"totalPoints":90},"away":{"teamId":2,"totalPoints":80},"winner":"HOME"},
			{"id":31,"matchupPeriodId":6,"home":{"teamId":2,"totalPoints":70.5},"away":{"teamId":1,"totalPoints":66},"winner":"UNDECIDED"}
		]}`
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	out := a.Execute(context.Background(), "get_matchups", platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025}, "")
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}

	raw, _ := json.Marshal(out.Data)
	var data struct {
		Week     int `json:"week"`
		Matchups []struct {
			MatchupID int     `json:"matchupId"`
			HomeTeam  string  `json:"homeTeam"`
			HomeScore float64 `json:"homeScore"`
		} `json:"matchups"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if data.Week != 6 {
		t.Errorf("want current week 6, got %d", data.Week)
	}
	if len(data.Matchups) != 1 || data.Matchups[0].MatchupID != 31 {
		t.Fatalf("want only week 6 matchup, got %+v", data.Matchups)
	}
	if data.Matchups[0].HomeTeam != "B Two" || data.Matchups[0].HomeScore != 70.5 {
		t.Errorf("unexpected matchup row: %+v", data.Matchups[0])
	}
}

func TestLeagueInfoTranslatesRosterSlots(t *testing.T) {
	body := `{"id":1,"seasonId":2025,
		"status":{"currentMatchupPeriod":3,"latestScoringPeriod":3,"isActive":true},
		"settings":{"name":"Test League","size":10,
			"scoringSettings":{"scoringType":"H2H_POINTS"},
			"rosterSettings":{"lineupSlotCounts":{"0":1,"2":2,"20":5,"23":1,"99":0}},
			"scheduleSettings":{"matchupPeriodCount":14,"playoffTeamCount":6}}}`
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	out := a.Execute(context.Background(), "get_league_info", platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025}, "")
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}

	raw, _ := json.Marshal(out.Data)
	var data struct {
		LeagueName  string         `json:"leagueName"`
		SeasonYear  int            `json:"seasonYear"`
		RosterSlots map[string]int `json:"rosterSlots"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if data.LeagueName != "Test League" || data.SeasonYear != 2025 {
		t.Errorf("unexpected header fields: %+v", data)
	}
	want := map[string]int{"QB": 1, "RB": 2, "BENCH": 5, "FLEX": 1}
	for slot, count := range want {
		if data.RosterSlots[slot] != count {
			t.Errorf("slot %s: want %d, got %d", slot, count, data.RosterSlots[slot])
		}
	}
	if _, present := data.RosterSlots["POS_99"]; present {
		t.Error("zero-count slots must be dropped")
	}
}

// A position name the sport's tables do not know means "no slot restriction",
// the same as asking for ALL; it must not fail the call.
func TestFreeAgentsUnknownPositionMeansNoSlotFilter(t *testing.T) {
	var gotFilter string
	a := credsAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.Header.Get("X-Fantasy-Filter")
		_, _ = w.Write([]byte(`{"players":[]}`))
	})
	out := a.Execute(context.Background(), "get_free_agents",
		platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025, Position: "GOALIE"}, "Bearer tok")
	if !out.Success {
		t.Fatalf("unknown position must widen the search, got %+v", out)
	}
	if strings.Contains(gotFilter, "filterSlotIds") {
		t.Errorf("want no slot restriction for an unknown position, got filter %s", gotFilter)
	}
}

func TestTransactionsDefaultWindowAndShape(t *testing.T) {
	commBody := `{"topics":[
		{"id":"t1","date":1700000000000,"scoringPeriodId":10,"messages":[
			{"id":1,"messageTypeId":178,"to":4,"targetId":3139477}]},
		{"id":"t2","date":1699000000000,"messages":[
			{"id":2,"messageTypeId":180,"scoringPeriodId":9,"to":4,"from":12,"targetId":4241389}]},
		{"id":"t3","date":1698000000000,"messages":[
			{"id":3,"messageTypeId":178,"scoringPeriodId":8,"to":5,"targetId":111}]}
	]}`
	a := credsAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/communication/"):
			_, _ = w.Write([]byte(commBody))
		case strings.Contains(r.URL.Path, "/players"):
			_, _ = w.Write([]byte(`[]`))
		default:
			_, _ = w.Write([]byte(`{"status":{"latestScoringPeriod":10}}`))
		}
	})

	out := a.Execute(context.Background(), "get_transactions",
		platform.ToolParams{Sport: "football", LeagueID: "1", SeasonYear: 2025}, "Bearer tok")
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}

	raw, _ := json.Marshal(out.Data)
	var data struct {
		Window struct {
			Mode  string `json:"mode"`
			Weeks []int  `json:"weeks"`
		} `json:"window"`
		Transactions []struct {
			Type    string   `json:"type"`
			Status  string   `json:"status"`
			Week    int      `json:"week"`
			TeamIDs []string `json:"teamIds"`
			FAABBid *int     `json:"faabBid"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if data.Window.Mode != "recent_two_weeks" {
		t.Errorf("want window mode recent_two_weeks, got %q", data.Window.Mode)
	}
	if len(data.Window.Weeks) != 2 || data.Window.Weeks[0] != 10 || data.Window.Weeks[1] != 9 {
		t.Errorf("want weeks [10 9], got %v", data.Window.Weeks)
	}
	if len(data.Transactions) != 2 {
		t.Fatalf("week 8 move must fall outside the window, got %+v", data.Transactions)
	}
	for _, txn := range data.Transactions {
		if txn.Status != "complete" {
			t.Errorf("activity moves are executed, want status complete, got %q", txn.Status)
		}
		if len(txn.TeamIDs) != 1 || txn.TeamIDs[0] != "4" {
			t.Errorf("want teamIds [4], got %v", txn.TeamIDs)
		}
	}
	if data.Transactions[1].Type != "waiver" || data.Transactions[1].FAABBid == nil || *data.Transactions[1].FAABBid != 12 {
		t.Errorf("want waiver claim with bid 12, got %+v", data.Transactions[1])
	}
}
