package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// listServer serves a fixed body after an optional delay, so completion order
// can be forced to differ from declaration order.
func listServer(t *testing.T, body string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAll_DeclarationOrderWins(t *testing.T) {
	// The first-declared source is the slowest. Its entry must still win
	// the dedup tie for shared.example.com.
	slow := listServer(t, "1.1.1.1 shared.example.com\n", 150*time.Millisecond)
	fast := listServer(t, "2.2.2.2 shared.example.com\nonly.example.net\n", 0)

	f := NewFetcher(10 * time.Second)
	res, err := FetchAll(context.Background(), f, []Source{
		{Name: "slow", URL: slow.URL},
		{Name: "fast", URL: fast.URL},
	}, Options{})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	merged := res.Merged()
	if len(merged) != 2 {
		t.Fatalf("got %d merged entries, want 2", len(merged))
	}
	if merged[0].IP != "1.1.1.1" {
		t.Errorf("shared.example.com resolved to %s; completion order leaked into the merge", merged[0].IP)
	}
}

func TestFetchAll_AggregatesFailures(t *testing.T) {
	ok := listServer(t, "fine.example.com\n", 0)
	broken := listServer(t, "", 0) // will be closed below
	broken.Close()

	f := NewFetcher(5 * time.Second)
	_, err := FetchAll(context.Background(), f, []Source{
		{Name: "ok", URL: ok.URL},
		{Name: "broken", URL: broken.URL},
	}, Options{})
	if err == nil {
		t.Fatal("want error when any source fails")
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("err = %v, want SourceError inside", err)
	}
	if srcErr.Source.Name != "broken" {
		t.Errorf("failing source = %q, want broken", srcErr.Source.Name)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error does not name the failing source: %v", err)
	}
}

func TestFetchAll_NoSources(t *testing.T) {
	f := NewFetcher(time.Second)
	if _, err := FetchAll(context.Background(), f, nil, Options{}); err == nil {
		t.Fatal("want error for empty source list")
	}
}

func TestFetchAll_ProgressAggregated(t *testing.T) {
	var a, b strings.Builder
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&a, "a%d.example.com\n", i)
		fmt.Fprintf(&b, "b%d.example.com\n", i)
	}
	srvA := listServer(t, a.String(), 0)
	srvB := listServer(t, b.String(), 0)

	// The callback is serialized, so plain appends are safe here.
	var seen []int
	opts := Options{Progress: func(processed int) {
		seen = append(seen, processed)
	}}

	f := NewFetcher(10 * time.Second)
	if _, err := FetchAll(context.Background(), f, []Source{
		{Name: "a", URL: srvA.URL},
		{Name: "b", URL: srvB.URL},
	}, opts); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(seen) == 0 {
		t.Fatal("progress callback never invoked")
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress not monotonic: %d after %d", seen[i], seen[i-1])
		}
	}
	if last := seen[len(seen)-1]; last != 5000 {
		t.Errorf("final progress = %d, want the summed line count 5000", last)
	}
}

func TestFetchAll_TruncationPropagates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "host%d.example.com\n", i)
	}
	srv := listServer(t, b.String(), 0)

	f := NewFetcher(10 * time.Second)
	res, err := FetchAll(context.Background(), f,
		[]Source{{Name: "big", URL: srv.URL}},
		Options{MaxRecords: 10})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if !res.Truncated {
		t.Error("truncation flag lost in multi-source result")
	}
	if len(res.Collections[0]) != 10 {
		t.Errorf("collection size = %d, want 10", len(res.Collections[0]))
	}
}
