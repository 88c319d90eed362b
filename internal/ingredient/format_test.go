package ingredient

import (
	"testing"

	"github.com/hammamikhairi/recipro/internal/domain"
)

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{0.5, "1/2"},
		{0.125, "1/8"},
		{0.25, "1/4"},
		{1.0 / 3, "1/3"},
		{2.0 / 3, "2/3"},
		{0.75, "3/4"},
		{2.5, "2 1/2"},
		{1.666, "1 2/3"},
		{3.25, "3 1/4"},
		{3, "3"},
		{12, "12"},
		{1.1, "1.1"},
		{2.37, "2.37"},
		{0.6, "0.6"},
		{4.005, "4"},
	}
	for _, tt := range tests {
		if got := FormatQuantity(tt.in); got != tt.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToFraction(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "1/2"},
		{0.25, "1/4"},
		{1.0 / 3, "1/3"},
		{0.2, "1/5"},
		{0.875, "7/8"},
		{1.5, "1 1/2"},
		{2.75, "2 3/4"},
		{2, "2"},
		{7, "7"},
		{1e19, "10000000000000000000"},
		{4.5e18, "4500000000000000000"},
	}
	for _, tt := range tests {
		if got := ToFraction(tt.in); got != tt.want {
			t.Errorf("ToFraction(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimDecimal(t *testing.T) {
	tests := map[string]string{
		"1.50": "1.5",
		"2.00": "2",
		"0.25": "0.25",
		"300":  "300",
		"10.0": "10",
	}
	for in, want := range tests {
		if got := TrimDecimal(in); got != want {
			t.Errorf("TrimDecimal(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"1 cup sugar", "sugar|cup"},
		{"2 cups Sugar", "sugar|cup"},
		{"1 onion, diced", "onion|"},
		{"1 can tomatoes (14 oz)", "tomatoes|can"},
		{"2 tbsp butter (softened), at room temp", "butter|tbsp"},
		{"Salt to taste", "salt to taste|"},
		{"1 tbsp milk", "milk|tbsp"},
		{"1 cup milk", "milk|cup"},
	}
	for _, tt := range tests {
		if got := Key(Parse(tt.line)); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestKeyNormalizesUnit(t *testing.T) {
	p := domain.ParsedIngredient{Name: "flour", Unit: "Cups", HasQuantity: true, Quantity: 1}
	if got := Key(p); got != "flour|cup" {
		t.Fatalf("got %q", got)
	}
	name, unit := SplitKey("flour|cup")
	if name != "flour" || unit != "cup" {
		t.Fatalf("SplitKey = %q, %q", name, unit)
	}
}
