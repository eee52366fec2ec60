package openf1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// startMockAPI serves body with the given status for every request and
// records the last request URL.
func startMockAPI(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()

	var lastURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &lastURL
}

const twoDrivers = `[
	{"driver_number":1,"broadcast_name":"M VERSTAPPEN","full_name":"Max VERSTAPPEN",
	 "team_name":"Red Bull Racing","name_acronym":"VER","headshot_url":"https://example.com/ver.png",
	 "team_colour":"3671C6","country_code":"NED","session_key":9472},
	{"driver_number":16,"broadcast_name":"C LECLERC","full_name":"Charles LECLERC",
	 "team_name":"Ferrari","name_acronym":"LEC","headshot_url":null,
	 "team_colour":"E8002D","country_code":"MON","session_key":9472}
]`

func TestClientDrivers(t *testing.T) {
	srv, lastURL := startMockAPI(t, http.StatusOK, twoDrivers)

	client := NewClient(srv.URL)
	got, err := client.Drivers(context.Background(), 9472)
	if err != nil {
		t.Fatalf("Drivers: %v", err)
	}

	if *lastURL != "/drivers?session_key=9472" {
		t.Errorf("request url = %q, want %q", *lastURL, "/drivers?session_key=9472")
	}
	if len(got) != 2 {
		t.Fatalf("got %d drivers, want 2", len(got))
	}
	if got[0].DriverNumber != 1 {
		t.Errorf("driver_number = %d, want 1", got[0].DriverNumber)
	}
	if got[0].Headshot() != "https://example.com/ver.png" {
		t.Errorf("headshot = %q", got[0].Headshot())
	}
	if got[1].HeadshotURL != nil {
		t.Errorf("headshot_url = %v, want nil", got[1].HeadshotURL)
	}
	if got[1].TeamColour != "E8002D" {
		t.Errorf("team_colour = %q, want %q", got[1].TeamColour, "E8002D")
	}
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://api.openf1.org/v1/")
	want := "https://api.openf1.org/v1/drivers?session_key=9472"
	if got := client.DriversURL(9472); got != want {
		t.Errorf("DriversURL = %q, want %q", got, want)
	}
}

func TestClientEmptyArray(t *testing.T) {
	srv, _ := startMockAPI(t, http.StatusOK, `[]`)

	got, err := NewClient(srv.URL).Drivers(context.Background(), 1)
	if err != nil {
		t.Fatalf("Drivers: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d drivers, want 0", len(got))
	}
}

func TestClientStatusError(t *testing.T) {
	srv, _ := startMockAPI(t, http.StatusServiceUnavailable, `{"detail":"down"}`)

	_, err := NewClient(srv.URL).Drivers(context.Background(), 9472)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if netErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", netErr.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv, _ := startMockAPI(t, http.StatusOK, `{"detail":"not a list"}`)

	_, err := NewClient(srv.URL).Drivers(context.Background(), 9472)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

func TestClientConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr).Drivers(context.Background(), 9472)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0", netErr.StatusCode)
	}
}

func TestClientTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	client := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := client.Drivers(context.Background(), 9472)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
}
