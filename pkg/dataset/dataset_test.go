package dataset

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/errors"
)

const sheet = `Name,Photo,Age,Country,Interest,Net Worth
Ada Lovelace,https://img.example/ada.jpg,36,United Kingdom,Mathematics,"$251,260.80"
"Grace, Hopper",,85,USA,Compilers,"$150,000.00"
Linus,,54,Finland,Kernels,$99.5

Nobody
`

func TestParse(t *testing.T) {
	recs, err := Parse(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("len = %d, want 4", len(recs))
	}

	ada := recs[0]
	if ada.Name != "Ada Lovelace" || ada.Photo != "https://img.example/ada.jpg" || ada.Age != "36" {
		t.Errorf("ada = %+v", ada)
	}
	if ada.NetWorth != 251260.8 {
		t.Errorf("ada.NetWorth = %v, want 251260.8", ada.NetWorth)
	}
	if recs[1].Name != "Grace, Hopper" {
		t.Errorf("quoted comma not kept: %q", recs[1].Name)
	}
	if recs[3].Name != "Nobody" || recs[3].NetWorth != 0 || recs[3].Country != "" {
		t.Errorf("short row = %+v, want empty trailing fields", recs[3])
	}
}

func TestParseHeaderOrder(t *testing.T) {
	in := "net_worth, NAME ,country\n\"$1,000\",Bob,Peru\n"
	recs, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Name != "Bob" || r.Country != "Peru" || r.NetWorth != 1000 {
		t.Errorf("record = %+v", r)
	}
}

func TestParseEmpty(t *testing.T) {
	recs, err := Parse(strings.NewReader(""))
	if err != nil || len(recs) != 0 {
		t.Errorf("Parse(\"\") = %v, %v", recs, err)
	}
	recs, err = Parse(strings.NewReader("Name,Photo\n"))
	if err != nil || len(recs) != 0 {
		t.Errorf("header only = %v, %v", recs, err)
	}
}

func TestParseNetWorth(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$251,260.80", 251260.8},
		{"1000", 1000},
		{" $12 ", 12},
		{"", 0},
		{"n/a", 0},
		{"-$5", -5},
		{"-5", -5},
	}
	for _, tt := range tests {
		if got := ParseNetWorth(tt.in); got != tt.want {
			t.Errorf("ParseNetWorth(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{251260.8, "$251,260.8"},
		{1000, "$1,000"},
		{0.125, "$0.13"},
		{-1500, "-$1,500"},
		{math.NaN(), "$0"},
		{math.Inf(1), "$0"},
	}
	for _, tt := range tests {
		if got := FormatUSD(tt.in); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		worth float64
		want  Band
	}{
		{0, BandLow},
		{100_000, BandLow},
		{100_000.01, BandMid},
		{200_000, BandMid},
		{200_001, BandHigh},
	}
	for _, tt := range tests {
		if got := (Record{NetWorth: tt.worth}).Band(); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.worth, got, tt.want)
		}
	}
	if c := BandHigh.Color(); c.G != 204 || c.A != 217 {
		t.Errorf("BandHigh.Color() = %v", c)
	}
	if c := BandLow.Color(); c.R != 231 {
		t.Errorf("BandLow.Color() = %v", c)
	}
}

func TestLabel(t *testing.T) {
	if got := (Record{}).Label(); got != "(No Name)" {
		t.Errorf("Label() = %q", got)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	if err := os.WriteFile(path, []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := Open(context.Background(), path, nil)
	if err != nil || len(recs) != 4 {
		t.Fatalf("Open() = %d records, %v", len(recs), err)
	}

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	_, err = Open(context.Background(), "", nil)
	if !errors.Is(err, errors.ErrCodeInvalidDataset) {
		t.Errorf("empty source error = %v, want INVALID_DATASET", err)
	}
}

func TestFetcherCachesAndRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sheet))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(fc, nil)
	f.Client = srv.Client()
	f.Backoff.Initial = time.Millisecond

	ctx := context.Background()
	recs, err := Open(ctx, srv.URL+"/sheet.csv", f)
	if err != nil {
		t.Fatalf("Open(url) error: %v", err)
	}
	if len(recs) != 4 || calls != 2 {
		t.Fatalf("records=%d calls=%d, want 4/2", len(recs), calls)
	}

	if _, err := f.Load(ctx, srv.URL+"/sheet.csv"); err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("second load hit the network: calls=%d", calls)
	}
}

func TestFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewFetcher(nil, nil)
	f.Client = srv.Client()
	f.Backoff.Initial = time.Millisecond
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Fetch(404) = %v, want NETWORK_ERROR", err)
	}
}

func TestSample(t *testing.T) {
	a, b := Sample(25, 1), Sample(25, 1)
	if len(a) != 25 {
		t.Fatalf("len = %d, want 25", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Sample not deterministic at %d", i)
		}
		if a[i].NetWorth < 0 || a[i].NetWorth >= 300_000 {
			t.Errorf("NetWorth out of range: %v", a[i].NetWorth)
		}
	}
	if a[0].Name != "Tile 001" {
		t.Errorf("Name = %q", a[0].Name)
	}
	if len(Sample(-1, 1)) != 0 {
		t.Error("negative n should give no records")
	}
}
