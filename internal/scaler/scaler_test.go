package scaler

import (
	"reflect"
	"testing"

	"github.com/hammamikhairi/recipro/internal/domain"
)

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:       "pancakes",
		Title:    "Pancakes",
		Servings: 4,
		Ingredients: []string{
			"1 1/2 cups flour",
			"1/4 tsp salt",
			"2 eggs",
			"Butter for the pan",
			"1.25 cups milk",
		},
	}
}

func TestScaleRecipe(t *testing.T) {
	tests := []struct {
		name      string
		students  int
		wantTotal int
		wantLines []string
	}{
		{
			name:      "single student keeps quantities",
			students:  1,
			wantTotal: 4,
			wantLines: []string{
				"1.5 cup flour",
				"1/4 tsp salt",
				"2 eggs",
				"Butter for the pan",
				"1.25 cup milk",
			},
		},
		{
			name:      "three students",
			students:  3,
			wantTotal: 12,
			wantLines: []string{
				"4.5 cup flour",
				"3/4 tsp salt",
				"6 eggs",
				"Butter for the pan",
				"3.75 cup milk",
			},
		},
		{
			name:      "four students gives whole numbers",
			students:  4,
			wantTotal: 16,
			wantLines: []string{
				"6 cup flour",
				"1 tsp salt",
				"8 eggs",
				"Butter for the pan",
				"5 cup milk",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleRecipe(testRecipe(), tt.students)
			if got.ScaleFactor != tt.students {
				t.Fatalf("scale factor = %d, want %d", got.ScaleFactor, tt.students)
			}
			if got.TotalServings != tt.wantTotal {
				t.Fatalf("total servings = %d, want %d", got.TotalServings, tt.wantTotal)
			}
			if !reflect.DeepEqual(got.Lines, tt.wantLines) {
				t.Fatalf("lines:\n got %q\nwant %q", got.Lines, tt.wantLines)
			}
		})
	}
}

func TestScaleRecipeDoesNotClamp(t *testing.T) {
	r := &domain.Recipe{Servings: 2, Ingredients: []string{"1 cup rice"}}
	got := ScaleRecipe(r, 150)
	if got.ScaleFactor != 150 || got.Lines[0] != "150 cup rice" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestClampStudents(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 25: 25, 100: 100, 101: 100, 5000: 100}
	for in, want := range tests {
		if got := ClampStudents(in); got != want {
			t.Errorf("ClampStudents(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatScaled(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "1/2"},
		{3, "3"},
		{1.5, "1.5"},
		{2.25, "2.25"},
		{3.333333, "3.33"},
		{4.999, "5"},
	}
	for _, tt := range tests {
		if got := formatScaled(tt.in); got != tt.want {
			t.Errorf("formatScaled(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
