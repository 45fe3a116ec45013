package grid

import (
	"math"
	"testing"
)

func TestToCell(t *testing.T) {
	tests := []struct {
		x, y  float64
		block int
		want  Cell
	}{
		{0, 0, 4, Cell{0, 0}},
		{3.999, 3.999, 4, Cell{0, 0}},
		{4, 4, 4, Cell{1, 1}},
		{5, 5, 4, Cell{1, 1}},
		{8, 0, 4, Cell{2, 0}},
		{-0.5, -4, 4, Cell{-1, -1}},
		{-4.01, 0, 4, Cell{-2, 0}},
		{17, 33, 1, Cell{17, 33}},
	}
	for _, tt := range tests {
		if got := ToCell(tt.x, tt.y, tt.block); got != tt.want {
			t.Errorf("ToCell(%v, %v, %d) = %+v, want %+v", tt.x, tt.y, tt.block, got, tt.want)
		}
	}
}

func TestToCellContainsPoint(t *testing.T) {
	for _, b := range []int{1, 3, 4, 7} {
		for x := -20.0; x < 20; x += 0.37 {
			c := ToCell(x, -x, b)
			if !(float64(c.X*b) <= x && x < float64((c.X+1)*b)) {
				t.Fatalf("x=%v block=%d mapped to column %d", x, b, c.X)
			}
			if !(float64(c.Y*b) <= -x && -x < float64((c.Y+1)*b)) {
				t.Fatalf("y=%v block=%d mapped to row %d", -x, b, c.Y)
			}
			if again := ToCell(x, -x, b); again != c {
				t.Fatalf("ToCell not deterministic: %+v then %+v", c, again)
			}
		}
	}
}

func TestToCellPanicsOnZeroBlock(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero block size")
		}
	}()
	ToCell(1, 1, 0)
}

func TestClamp(t *testing.T) {
	if got := Clamp(Cell{-3, 20}, 16, 16); got != (Cell{0, 15}) {
		t.Fatalf("unexpected clamp %+v", got)
	}
	if got := Clamp(Cell{5, 6}, 16, 16); got != (Cell{5, 6}) {
		t.Fatalf("in-range cell changed: %+v", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize(math.NaN(), 64); got != 0 {
		t.Fatalf("NaN -> %v", got)
	}
	if got := Sanitize(math.Inf(1), 64); got != 64 {
		t.Fatalf("+Inf -> %v", got)
	}
	if got := Sanitize(math.Inf(-1), 64); got != 0 {
		t.Fatalf("-Inf -> %v", got)
	}
	if got := Sanitize(12.5, 64); got != 12.5 {
		t.Fatalf("finite value changed: %v", got)
	}
}

func TestOriginLocal(t *testing.T) {
	o := Origin{X: 48, Y: 24}
	x, y := o.Local(53, 29)
	if x != 5 || y != 5 {
		t.Fatalf("got (%v, %v)", x, y)
	}
	if got := ToCell(x, y, 4); got != (Cell{1, 1}) {
		t.Fatalf("got %+v", got)
	}
}
