package commands

import (
	"errors"
	"reflect"
	"testing"

	"forecastbot/internal/types"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"bare words", "Boston 2025-03-24", []string{"Boston", "2025-03-24"}},
		{"double quoted", `"New York" 2025-03-24`, []string{"New York", "2025-03-24"}},
		{"single quoted", `'New York' 2025-03-24`, []string{"New York", "2025-03-24"}},
		{"extra whitespace", "  Boston   2025-03-24  ", []string{"Boston", "2025-03-24"}},
		{"tabs and newlines", "Boston\t2025-03-24\n", []string{"Boston", "2025-03-24"}},
		{"empty quoted token", `"" 2025-03-24`, []string{"", "2025-03-24"}},
		{"unterminated quote", `"New York 2025-03-24`, []string{"New York 2025-03-24"}},
		{"quote mid word", "O'Fallon 03/24", []string{"O'Fallon", "03/24"}},
		{"empty input", "", nil},
		{"only whitespace", "   ", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitArgs(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitArgs(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseLocationAndDate(t *testing.T) {
	cases := []struct {
		name         string
		input        string
		wantLocation string
		wantDate     string
	}{
		{"simple", "Boston 2025-03-24", "Boston", "2025-03-24"},
		{"quoted multi-word", `"New York" 2025-03-24`, "New York", "2025-03-24"},
		{"bare multi-word", "New York 2025-03-24", "New York", "2025-03-24"},
		{"three word location", "Salt Lake City 03/24", "Salt Lake City", "03/24"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			location, date, err := ParseLocationAndDate(tc.input)
			if err != nil {
				t.Fatalf("ParseLocationAndDate(%q): %v", tc.input, err)
			}
			if location != tc.wantLocation || date != tc.wantDate {
				t.Errorf("got (%q, %q), want (%q, %q)", location, date, tc.wantLocation, tc.wantDate)
			}
		})
	}
}

func TestParseLocationAndDate_TooFewTokens(t *testing.T) {
	for _, input := range []string{"", "Boston", `"New York"`} {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseLocationAndDate(input)
			var appErr *types.AppError
			if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeValidationArguments {
				t.Fatalf("error = %v, want %s", err, types.ErrCodeValidationArguments)
			}
		})
	}
}

// Quotes inside a bare word stay literal, so apostrophe place names pass
// through unmangled.
func TestSplitArgs_MidWordQuoteIsLiteral(t *testing.T) {
	got := SplitArgs(`Coeur d'Alene 03/24`)
	want := []string{"Coeur", "d'Alene", "03/24"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitArgs = %#v, want %#v", got, want)
	}
}
