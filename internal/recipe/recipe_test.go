package recipe

import (
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/recipro/internal/ingredient"
)

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1760000000123)

	tests := []struct {
		title string
		want  string
	}{
		{"Classic Margherita Pizza", "classic-margherita-pizza-1760000000123"},
		{"Mom's  Apple-Pie!", "moms-applepie-1760000000123"},
		{"  Tacos  ", "tacos-1760000000123"},
		{strings.Repeat("a", 60), strings.Repeat("a", 50) + "-1760000000123"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := NewID(tt.title, now); got != tt.want {
				t.Fatalf("NewID(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	recipes := Defaults()
	if len(recipes) != len(DefaultIDs) {
		t.Fatalf("expected %d defaults, got %d", len(DefaultIDs), len(recipes))
	}

	for i, r := range recipes {
		if r.ID != DefaultIDs[i] {
			t.Errorf("default %d: ID %s, want %s", i, r.ID, DefaultIDs[i])
		}
		if !IsDefault(r.ID) {
			t.Errorf("IsDefault(%s) = false", r.ID)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("%s: %v", r.ID, err)
		}
		if len(r.Instructions) == 0 {
			t.Errorf("%s has no instructions", r.ID)
		}
		quantified := 0
		for _, line := range r.Ingredients {
			if ingredient.Parse(line).HasQuantity {
				quantified++
			}
		}
		if quantified == 0 {
			t.Errorf("%s has no quantified ingredients", r.ID)
		}
	}

	if IsDefault("tacos-123") {
		t.Fatal("IsDefault should be false for user recipes")
	}
}

func TestDefaultsAreFreshCopies(t *testing.T) {
	a := Defaults()
	a[0].Title = "changed"
	b := Defaults()
	if b[0].Title == "changed" {
		t.Fatal("Defaults should return new values on each call")
	}
}
