package vitals

import (
	"strings"
	"testing"
)

func TestEvaluateNormalMidRange(t *testing.T) {
	cases := []struct {
		name string
		hr   float64
		temp float64
		age  int
	}{
		{"young", 100, 37.0, 20},
		{"adult", 100, 37.0, 30},
		{"mature", 100, 37.0, 50},
		{"senior", 95, 36.8, 70},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Evaluate(tc.hr, tc.temp, tc.age)
			if v.IsAbnormal {
				t.Fatalf("Evaluate(%v, %v, %d) flagged abnormal: %q", tc.hr, tc.temp, tc.age, v.AlertMessage)
			}
			if v.AlertMessage != NormalMessage {
				t.Fatalf("message = %q, want %q", v.AlertMessage, NormalMessage)
			}
		})
	}
}

func TestEvaluateHighHeartRateBoundary(t *testing.T) {
	for _, age := range []int{13, 18, 25} {
		v := Evaluate(160, 37, age)
		if !v.IsAbnormal {
			t.Fatalf("age %d: 160 BPM should be abnormal", age)
		}
		if !strings.Contains(v.AlertMessage, "High heart rate") {
			t.Fatalf("age %d: message = %q, want high heart rate clause", age, v.AlertMessage)
		}

		v = Evaluate(159, 37, age)
		if v.IsAbnormal {
			t.Fatalf("age %d: 159 BPM should be normal, got %q", age, v.AlertMessage)
		}
	}
}

func TestEvaluateLowBoundaryInclusive(t *testing.T) {
	// The low bound itself is inside the normal band.
	if v := Evaluate(45, 37, 20); v.IsAbnormal {
		t.Fatalf("45 BPM at age 20 should be normal, got %q", v.AlertMessage)
	}
	if v := Evaluate(44.9, 37, 20); !v.IsAbnormal || !strings.Contains(v.AlertMessage, "Low heart rate") {
		t.Fatalf("44.9 BPM at age 20 should flag low heart rate, got %q", v.AlertMessage)
	}
}

func TestEvaluateAgeBuckets(t *testing.T) {
	// 150 BPM is normal for a 20-year-old but high from 41 up, and 130
	// is high only for seniors.
	if v := Evaluate(150, 37, 20); v.IsAbnormal {
		t.Fatalf("150 BPM at 20 should be normal, got %q", v.AlertMessage)
	}
	if v := Evaluate(150, 37, 45); !v.IsAbnormal {
		t.Fatal("150 BPM at 45 should be abnormal")
	}
	if v := Evaluate(130, 37, 65); !v.IsAbnormal {
		t.Fatal("130 BPM at 65 should be abnormal")
	}
	if v := Evaluate(129, 37, 65); v.IsAbnormal {
		t.Fatalf("129 BPM at 65 should be normal, got %q", v.AlertMessage)
	}
}

func TestEvaluateBothClausesOrdered(t *testing.T) {
	v := Evaluate(200, 39.0, 70)
	if !v.IsAbnormal {
		t.Fatal("200 BPM / 39.0 °C at 70 should be abnormal")
	}

	hrIdx := strings.Index(v.AlertMessage, "High heart rate (200 BPM)")
	tempIdx := strings.Index(v.AlertMessage, "High temperature (39.0 °C)")
	if hrIdx < 0 || tempIdx < 0 {
		t.Fatalf("message = %q, want both clauses", v.AlertMessage)
	}
	if hrIdx > tempIdx {
		t.Fatalf("heart-rate clause must precede temperature clause: %q", v.AlertMessage)
	}
	if !strings.Contains(v.AlertMessage, " | ") {
		t.Fatalf("clauses must be joined with %q: %q", " | ", v.AlertMessage)
	}
}

func TestEvaluateTemperatureClauses(t *testing.T) {
	if v := Evaluate(80, 38.5, 20); !strings.Contains(v.AlertMessage, "High temperature (38.5 °C)") {
		t.Fatalf("38.5 °C at 20 should flag high temperature, got %q", v.AlertMessage)
	}
	if v := Evaluate(80, 35.7, 20); !strings.Contains(v.AlertMessage, "Low temperature (35.7 °C)") {
		t.Fatalf("35.7 °C at 20 should flag low temperature, got %q", v.AlertMessage)
	}
}

func TestEvaluateTotalOnAbsurdInputs(t *testing.T) {
	// Any real input yields a verdict; negatives flag low, never panic.
	v := Evaluate(-10, -5, 200)
	if !v.IsAbnormal {
		t.Fatal("absurd negative readings should be abnormal")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	a := Evaluate(172.5, 38.9, 33)
	b := Evaluate(172.5, 38.9, 33)
	if a != b {
		t.Fatalf("identical inputs produced different verdicts: %+v vs %+v", a, b)
	}
}
