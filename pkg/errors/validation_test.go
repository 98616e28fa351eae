package errors

import (
	"math"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "people.csv", false},
		{"absolute file", "/data/people.csv", false},
		{"https", "https://docs.google.com/sheet?output=csv", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com/people.csv", true},
		{"null byte", "people\x00.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	if err := ValidateDuration(0); err != nil {
		t.Errorf("ValidateDuration(0) = %v, want nil", err)
	}
	if err := ValidateDuration(1500 * time.Millisecond); err != nil {
		t.Errorf("ValidateDuration(1.5s) = %v, want nil", err)
	}
	if err := ValidateDuration(-time.Second); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateDuration(-1s) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateCount(t *testing.T) {
	if err := ValidateCount(0); err != nil {
		t.Errorf("ValidateCount(0) = %v, want nil", err)
	}
	if err := ValidateCount(-1); err == nil {
		t.Error("ValidateCount(-1) should fail")
	}
}

func TestValidateFPS(t *testing.T) {
	for _, fps := range []float64{0, -30, math.NaN(), math.Inf(1)} {
		if err := ValidateFPS(fps); err == nil {
			t.Errorf("ValidateFPS(%v) should fail", fps)
		}
	}
	if err := ValidateFPS(60); err != nil {
		t.Errorf("ValidateFPS(60) = %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "json", "svg", "webp"); err != nil {
		t.Errorf("ValidateFormat(svg) = %v", err)
	}
	err := ValidateFormat("gif", "json", "svg", "webp")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("ValidateFormat(gif) = %v, want INVALID_FORMAT", err)
	}
	if want := `invalid format: "gif" (must be one of: json, svg, webp)`; UserMessage(err) != want {
		t.Errorf("message = %q, want %q", UserMessage(err), want)
	}
}
