package neuromath

import (
	"math"
	"testing"
)

func TestSatClamps(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Sat(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Sat(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestActivationApply(t *testing.T) {
	cases := []struct {
		name string
		fn   Activation
		in   Signal
		want Signal
	}{
		{"relu positive", ReLU, 3, 3},
		{"relu negative", ReLU, -3, 0},
		{"linear", Linear, 7.5, 7.5},
		{"sgn positive", Sgn, 2, 1},
		{"sgn negative", Sgn, -2, -1},
		{"sgn zero", Sgn, 0, 0},
		{"bin positive", Bin, 0.1, 1},
		{"bin nonpositive", Bin, 0, 0},
		{"trinary high", Trinary, 1, 1},
		{"trinary low", Trinary, -1, -1},
		{"trinary mid", Trinary, 0, 0},
		{"absolute", Absolute, -4, 4},
		{"quadratic positive", Quadratic, 2, 4},
		{"quadratic negative", Quadratic, -2, -4},
		{"log zero", Log, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.fn.Apply(c.in); got != c.want {
				t.Errorf("%v.Apply(%v) = %v, want %v", c.fn, c.in, got, c.want)
			}
		})
	}
}

func TestSigmoidBounded(t *testing.T) {
	out := Sigmoid.Apply(1e9)
	if out <= 0 || out >= 1.0001 {
		t.Fatalf("sigmoid of a huge input should saturate to ~1, got %v", out)
	}
	out = Sigmoid.Apply(-1e9)
	if out < -0.0001 || out >= 0.5 {
		t.Fatalf("sigmoid of a very negative input should saturate near 0, got %v", out)
	}
}

func TestGaussianNeverNegative(t *testing.T) {
	for _, x := range []Signal{-100, -1, 0, 1, 100} {
		out := Gaussian.Apply(x)
		if out < 0 {
			t.Errorf("Gaussian.Apply(%v) = %v, want non-negative", x, out)
		}
	}
}

func TestSqrtPreservesSign(t *testing.T) {
	if got := Sqrt.Apply(-4); got >= 0 {
		t.Fatalf("Sqrt.Apply(-4) = %v, want negative", got)
	}
	if got := Sqrt.Apply(4); got <= 0 {
		t.Fatalf("Sqrt.Apply(4) = %v, want positive", got)
	}
}

func TestTanhMatchesMath(t *testing.T) {
	if got, want := float64(Tanh.Apply(0.5)), math.Tanh(0.5); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Tanh.Apply(0.5) = %v, want %v", got, want)
	}
}

func TestAllActivationsHaveNames(t *testing.T) {
	for _, a := range AllActivations {
		if a.String() == "unknown" {
			t.Errorf("activation %d has no name", a)
		}
	}
}
