package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient().WithBaseURL(srv.URL)
}

func TestGetUsesPlatformYearInURL(t *testing.T) {
	var gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"seasonId":2025}`))
	})

	// Canonical 2024 basketball is ESPN's 2025 season.
	_, err := client.Get(context.Background(), Request{
		Sport: "basketball",
		Path:  LeaguePath(ToPlatformYear(2024, "basketball"), "12345"),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "/apis/v3/games/fba/seasons/2025/segments/0/leagues/12345"
	if gotPath != want {
		t.Errorf("want path %s, got %s", want, gotPath)
	}
}

func TestGetSendsCookiesAndFilter(t *testing.T) {
	var gotCookie, gotFilter string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotFilter = r.Header.Get("X-Fantasy-Filter")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Get(context.Background(), Request{
		Sport:  "football",
		Path:   "seasons/2025/players",
		Filter: `{"filterActive":{"value":true}}`,
		Creds:  &Credentials{SWID: "{ABC}", S2: "secret"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "SWID={ABC}; espn_s2=secret"; gotCookie != want {
		t.Errorf("want cookie %q, got %q", want, gotCookie)
	}
	if gotFilter != `{"filterActive":{"value":true}}` {
		t.Errorf("filter header not forwarded, got %q", gotFilter)
	}
}

func TestGetErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		creds    *Credentials
		wantCode string
	}{
		{"401 with creds", 401, "{}", &Credentials{SWID: "x", S2: "y"}, platform.CodeESPNCookiesExpired},
		{"401 without creds", 401, "{}", nil, platform.CodeESPNAuthRequired},
		{"403", 403, "{}", &Credentials{SWID: "x", S2: "y"}, platform.CodeESPNAccessDenied},
		{"404", 404, "{}", nil, platform.CodeESPNNotFound},
		{"429", 429, "{}", nil, platform.CodeESPNRateLimit},
		{"500", 500, "{}", nil, platform.CodeESPNAPIError},
		{"login page", 200, "<html>log in</html>", &Credentials{SWID: "x", S2: "y"}, platform.CodeESPNAuthFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.Get(context.Background(), Request{Sport: "football", Path: "seasons/2025/x", Creds: tc.creds})
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if got := CodeOf(err); got != tc.wantCode {
				t.Errorf("want code %s, got %s (%v)", tc.wantCode, got, err)
			}
		})
	}
}

func TestGetRequireCredsWithoutCreds(t *testing.T) {
	client := NewClient()
	_, err := client.Get(context.Background(), Request{Sport: "football", Path: "p", RequireCreds: true})
	if got := CodeOf(err); got != platform.CodeESPNCredentialsNotFound {
		t.Errorf("want ESPN_CREDENTIALS_NOT_FOUND, got %s", got)
	}
}

func TestGetJSONInvalidBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	var out map[string]any
	err := client.GetJSON(context.Background(), Request{Sport: "football", Path: "p"}, &out)
	if got := CodeOf(err); got != platform.CodeESPNInvalidResponse {
		t.Errorf("want ESPN_INVALID_RESPONSE, got %s", got)
	}
}

func TestStatusOf(t *testing.T) {
	err := &APIError{Code: platform.CodeESPNNotFound, Status: 404, Message: "x"}
	if got := StatusOf(err); got != 404 {
		t.Errorf("want 404, got %d", got)
	}
	if got := StatusOf(errors.New("plain")); got != 0 {
		t.Errorf("want 0 for plain error, got %d", got)
	}
}
