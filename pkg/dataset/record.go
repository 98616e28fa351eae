package dataset

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Band thresholds in dollars.
const (
	MidThreshold  = 100_000
	HighThreshold = 200_000
)

// Record is one tile's data.
type Record struct {
	Name     string  `json:"name"`
	Photo    string  `json:"photo"`
	Age      string  `json:"age"`
	Country  string  `json:"country"`
	Interest string  `json:"interest"`
	NetWorth float64 `json:"net_worth"`
}

// Band buckets net worth for colouring.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// Band returns high above 200k, mid above 100k, low otherwise.
func (r Record) Band() Band {
	switch {
	case r.NetWorth > HighThreshold:
		return BandHigh
	case r.NetWorth > MidThreshold:
		return BandMid
	}
	return BandLow
}

// Color returns the tile background for the band: green, orange or red at
// 85% opacity.
func (b Band) Color() color.NRGBA {
	switch b {
	case BandHigh:
		return color.NRGBA{R: 46, G: 204, B: 113, A: 217}
	case BandMid:
		return color.NRGBA{R: 243, G: 156, B: 18, A: 217}
	}
	return color.NRGBA{R: 231, G: 76, B: 60, A: 217}
}

// Label returns the display name, or "(No Name)".
func (r Record) Label() string {
	if r.Name == "" {
		return "(No Name)"
	}
	return r.Name
}

// ParseNetWorth parses a currency string such as "$251,260.80". Dollar
// signs, commas and surrounding space are ignored. Anything unparseable is 0.
func ParseNetWorth(s string) float64 {
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatUSD formats v as dollars with thousands separators and at most two
// decimals, for example "$251,260.8". Non-finite values format as "$0".
func FormatUSD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}
	v = math.Round(v*100) / 100
	if v < 0 {
		return "-$" + humanize.Commaf(-v)
	}
	return "$" + humanize.Commaf(v)
}
