package animation

import (
	"math"
	"testing"
)

func TestCubicBezier_Endpoints(t *testing.T) {
	curves := map[string]Curve{
		"linear":      Linear,
		"ease":        Ease,
		"ease-in":     EaseIn,
		"ease-out":    EaseOut,
		"ease-in-out": EaseInOut,
	}
	for name, curve := range curves {
		t.Run(name, func(t *testing.T) {
			if got := curve(0); got != 0 {
				t.Fatalf("expected 0 at start, got %v", got)
			}
			if got := curve(1); got != 1 {
				t.Fatalf("expected 1 at end, got %v", got)
			}
			if got := curve(-1); got > 0 {
				t.Fatalf("expected clamp below 0, got %v", got)
			}
		})
	}
}

func TestCubicBezier_Monotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := Ease(float64(i) / 100)
		if v < prev-1e-9 {
			t.Fatalf("ease decreased at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestCubicBezier_LinearControlPoints(t *testing.T) {
	curve := CubicBezier(1.0/3, 1.0/3, 2.0/3, 2.0/3)
	for _, x := range []float64{0.1, 0.25, 0.5, 0.9} {
		if got := curve(x); math.Abs(got-x) > 1e-5 {
			t.Fatalf("expected %v, got %v", x, got)
		}
	}
}

func TestEaseInOut_Symmetric(t *testing.T) {
	if got := EaseInOut(0.5); math.Abs(got-0.5) > 1e-5 {
		t.Fatalf("expected midpoint 0.5, got %v", got)
	}
}

func TestNamed(t *testing.T) {
	if _, ok := Named("ease"); !ok {
		t.Fatalf("expected ease to resolve")
	}
	if _, ok := Named("bounce"); ok {
		t.Fatalf("expected unknown curve to fail")
	}
}
