package espn

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestBasicLeagueInfoIncludesStandings(t *testing.T) {
	var gotViews string
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotViews = strings.Join(r.URL.Query()["view"], ",")
		_, _ = w.Write([]byte(`{"seasonId":2025,"settings":{"name":"Old Timers"},"teams":[
			{"id":1,"location":"Lucky","nickname":"Ducks","record":{"overall":{"wins":4,"losses":6}}},
			{"id":2,"location":"Angry","nickname":"Badgers","record":{"overall":{"wins":8,"losses":2}}}
		]}`))
	})

	info, err := a.BasicLeagueInfo(context.Background(), "football", "99", 2025, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Success || len(info.Teams) != 2 {
		t.Fatalf("want a 2-team hit, got %+v", info)
	}
	if !strings.Contains(gotViews, "mStandings") {
		t.Errorf("probe must request standings, got views %q", gotViews)
	}
	if len(info.Standings) != 2 {
		t.Fatalf("want 2 standings rows, got %+v", info.Standings)
	}
	top := info.Standings[0]
	if top.Rank != 1 || top.TeamID != "2" || top.Wins != 8 {
		t.Errorf("want the 8-win team first, got %+v", top)
	}
}

// A flaky upstream is not evidence about the season: 5xx must surface as an
// error for the caller to retry, never as a classified miss.
func TestBasicLeagueInfoServerErrorIsAnError(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	info, err := a.BasicLeagueInfo(context.Background(), "football", "99", 2025, nil)
	if err == nil {
		t.Fatalf("want an error for a 502, got %+v", info)
	}
	if StatusOf(err) != http.StatusBadGateway {
		t.Errorf("want the upstream status preserved, got %d", StatusOf(err))
	}
}

func TestBasicLeagueInfoNotFoundIsClassified(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	info, err := a.BasicLeagueInfo(context.Background(), "football", "99", 2013, nil)
	if err != nil {
		t.Fatalf("404 is a plain miss, got error %v", err)
	}
	if info.Success || info.HTTPStatus != http.StatusNotFound {
		t.Errorf("want classified 404, got %+v", info)
	}
}
