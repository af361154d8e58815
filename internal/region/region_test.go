package region

import (
	"testing"

	"github.com/1broseidon/framewm/internal/geom"
)

func TestClassify_Partition(t *testing.T) {
	g := Geometry{Bounds: geom.R(0, 0, 100, 80), Border: 5, Titlebar: 20}

	tests := []struct {
		name   string
		x, y   int
		expect Region
	}{
		{"top-left corner", 2, 2, TopLeft},
		{"titlebar", 50, 10, Title},
		{"content", 50, 50, Content},
		{"right border", 98, 50, Right},
		{"outside right", 150, 50, Out},
		{"top edge", 50, 0, Top},
		{"top-right corner", 99, 4, TopRight},
		{"left beside titlebar", 0, 20, Left},
		{"bottom edge", 50, 79, Bot},
		{"bottom-left corner", 4, 75, BotLeft},
		{"bottom-right corner", 95, 75, BotRight},
		{"outside left", -1, 40, Out},
		{"outside below", 50, 80, Out},
		{"outside above", 50, -3, Out},
		{"first content row", 50, 25, Content},
		{"last content column", 94, 60, Content},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(g, tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Classify(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestClassify_NoTitlebar(t *testing.T) {
	g := Geometry{Bounds: geom.R(10, 10, 50, 50), Border: 2}
	if got := Classify(g, 30, 13); got != Content {
		t.Errorf("Classify below top border = %v, want %v", got, Content)
	}
}

func TestClassify_ExhaustiveOverBoundingBox(t *testing.T) {
	g := Geometry{Bounds: geom.R(3, 7, 40, 30), Border: 4, Titlebar: 6}
	for y := g.Bounds.Y - 2; y < g.Bounds.Bottom()+2; y++ {
		for x := g.Bounds.X - 2; x < g.Bounds.Right()+2; x++ {
			got := Classify(g, x, y)
			inside := g.Bounds.Contains(x, y)
			if inside && got == Out {
				t.Fatalf("(%d,%d) inside bounds classified Out", x, y)
			}
			if !inside && got != Out {
				t.Fatalf("(%d,%d) outside bounds classified %v", x, y, got)
			}
		}
	}
}

func TestRegionEdges(t *testing.T) {
	l, r, tp, b := TopLeft.Edges()
	if !l || r || !tp || b {
		t.Errorf("TopLeft.Edges() = %v %v %v %v", l, r, tp, b)
	}
	if Title.IsBorder() || Content.IsBorder() || Out.IsBorder() {
		t.Error("non-border region reported as border")
	}
	if !BotRight.IsBorder() {
		t.Error("BotRight should be a border")
	}
}
