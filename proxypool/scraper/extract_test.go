package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestExtract_SpecExample(t *testing.T) {
	got := Extract([]string{"found proxy at 10.0.0.1#3128 and junk 999.1.1.1:80"})
	if len(got) != 1 || got[0] != "10.0.0.1:3128" {
		t.Errorf("Expected [10.0.0.1:3128], but got %v", got)
	}
}

func TestExtract_DedupesAndSorts(t *testing.T) {
	lines := []string{
		"5.5.5.5:80 1.1.1.1:8080",
		"",
		"dup 1.1.1.1#8080 again 1.1.1.1:8080",
		"   ",
		"10.0.0.2:1 and 10.0.0.10:1",
	}
	got := Extract(lines)
	want := []string{"1.1.1.1:8080", "10.0.0.10:1", "10.0.0.2:1", "5.5.5.5:80"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Expected %v, but got %v", want, got)
	}
}

func TestExtractLine_PortRange(t *testing.T) {
	cases := map[string]int{
		"1.2.3.4:0":     0,
		"1.2.3.4:65535": 1,
		"1.2.3.4:65536": 0,
		"1.2.3.4:1":     1,
		"1.2.3.4#443":   1,
		"1.2.3.4 443":   0,
	}
	for line, want := range cases {
		if got := ExtractLine(line); len(got) != want {
			t.Errorf("Expected %d matches for %q, but got %v", want, line, got)
		}
	}
}

func TestExtractLine_IPv6(t *testing.T) {
	cases := map[string]string{
		"[2001:db8::1]:8080": "[2001:db8::1]:8080",
		"[::1]#1080":         "[::1]:1080",
		"2001:db8::1:8080":   "[2001:db8::1]:8080",
	}
	for line, want := range cases {
		got := ExtractLine(line)
		if len(got) != 1 || got[0] != want {
			t.Errorf("Expected [%s] for %q, but got %v", want, line, got)
		}
	}
}

func TestExtractLine_RejectsNonAddresses(t *testing.T) {
	for _, line := range []string{"meeting at 12:30", "abc:80", "256.256.256.256:80", "no numbers here"} {
		if got := ExtractLine(line); len(got) != 0 {
			t.Errorf("Expected no matches for %q, but got %v", line, got)
		}
	}
}

const samplePage = `<!DOCTYPE html>
<html><head><title>Free proxies</title><script>var x = "9.9.9.9:99";</script></head>
<body>
<p>Updated list, also try 8.8.4.4#3128</p>
<table>
<tr><th>IP</th><th>Port</th><th>Country</th></tr>
<tr><td>1.2.3.4</td><td>8080</td><td>US</td></tr>
<tr><td>5.6.7.8</td><td>1080</td><td>DE</td></tr>
<tr><td>300.1.1.1</td><td>80</td><td>??</td></tr>
</table>
</body></html>`

func TestHTMLFileScraper_TableAndText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.html")
	if err := os.WriteFile(path, []byte(samplePage), 0644); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}

	s := New(path)
	if _, ok := s.(*HTMLFileScraper); !ok {
		t.Fatalf("Expected an HTMLFileScraper for %s, but got %T", path, s)
	}
	lines, err := s.Scrape()
	if err != nil {
		t.Fatalf("Scrape() returned an error: %v", err)
	}

	got := Extract(lines)
	want := []string{"1.2.3.4:8080", "5.6.7.8:1080", "8.8.4.4:3128"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Expected %v, but got %v", want, got)
	}
}

func TestTextFileScraper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte("junk\n\n10.0.0.1#3128 and junk 999.1.1.1:80\n"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	s := New(path)
	lines, err := s.Scrape()
	if err != nil {
		t.Fatalf("Scrape() returned an error: %v", err)
	}
	if got := Extract(lines); len(got) != 1 || got[0] != "10.0.0.1:3128" {
		t.Errorf("Expected [10.0.0.1:3128], but got %v", got)
	}
}

func TestTextFileScraper_Missing(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.txt")).Scrape(); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestWebScraper_PlainTextAndHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list.txt":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "1.1.1.1:80\r\n2.2.2.2#8080\n")
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, samplePage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	lines, err := New(srv.URL + "/list.txt").Scrape()
	if err != nil {
		t.Fatalf("Scrape() returned an error: %v", err)
	}
	if got := Extract(lines); fmt.Sprint(got) != fmt.Sprint([]string{"1.1.1.1:80", "2.2.2.2:8080"}) {
		t.Errorf("Expected plain text addresses, but got %v", got)
	}

	lines, err = New(srv.URL + "/page").Scrape()
	if err != nil {
		t.Fatalf("Scrape() returned an error: %v", err)
	}
	if got := Extract(lines); len(got) != 3 {
		t.Errorf("Expected 3 addresses from the HTML page, but got %v", got)
	}

	if _, err := New(srv.URL + "/missing").Scrape(); err == nil {
		t.Errorf("Expected an error for a 404 source")
	}
}

func TestWebScraper_ScrapeTwice(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "3.3.3.%d:3128\n", n)
	}))
	defer srv.Close()

	s := New(srv.URL + "/list.txt")
	for i := 1; i <= 2; i++ {
		lines, err := s.Scrape()
		if err != nil {
			t.Fatalf("Scrape() call %d returned an error: %v", i, err)
		}
		want := fmt.Sprintf("3.3.3.%d:3128", i)
		if len(lines) != 1 || lines[0] != want {
			t.Errorf("Expected call %d to return [%s], but got %v", i, want, lines)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("Expected 2 requests, but the server saw %d", n)
	}
}
