package light

import (
	"testing"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/spectrum"
)

func spec(items ...classify.Item) []spectrum.Item {
	total := 0
	for _, it := range items {
		total += it.DurationMin
	}
	return spectrum.Aggregate(items, total)
}

func it(dur int, cat classify.Category) classify.Item {
	return classify.Item{Name: string(cat), DurationMin: dur, Category: cat}
}

func TestComputeSingleDeepFocus(t *testing.T) {
	items := spec(it(130, classify.DeepFocus))
	q := Compute(items, 130, classify.Todos{})

	if q.FocusPct != "100%" {
		t.Errorf("FocusPct = %q, want 100%%", q.FocusPct)
	}
	if q.ScatterPct != "0%" {
		t.Errorf("ScatterPct = %q, want 0%%", q.ScatterPct)
	}
	if q.TodoRatio != nil {
		t.Errorf("TodoRatio = %v, want nil", *q.TodoRatio)
	}
	if q.TodoStr != NoTodos {
		t.Errorf("TodoStr = %q, want %q", q.TodoStr, NoTodos)
	}
}

func TestComputeEmptyDay(t *testing.T) {
	q := Compute(nil, 0, classify.Todos{})
	for name, r := range map[string]float64{
		"focus": q.FocusRatio, "scatter": q.ScatterRatio,
		"active": q.ActiveRatio, "passive": q.PassiveRatio,
	} {
		if r != 0 {
			t.Errorf("%s ratio = %v, want 0", name, r)
		}
	}
	if q.TodoRatio != nil {
		t.Error("TodoRatio should be nil")
	}
	if q.FocusPct != "0%" || q.PassivePct != "0%" {
		t.Errorf("pcts = %q / %q", q.FocusPct, q.PassivePct)
	}
}

func TestComputeExcludesNeutralTime(t *testing.T) {
	items := spec(
		it(60, classify.DeepFocus),
		it(30, classify.Recharge),
		it(30, classify.SelfReflection),
		it(60, classify.InstantGratification),
		it(480, classify.BodyMaintenance),
		it(60, classify.RoutineLife),
	)
	total := spectrum.Total(items)
	q := Compute(items, total, classify.Todos{})

	if q.EffectiveMin != 180 {
		t.Fatalf("EffectiveMin = %d, want 180", q.EffectiveMin)
	}
	if q.FocusPct != "33%" || q.ScatterPct != "67%" {
		t.Errorf("focus/scatter = %s/%s", q.FocusPct, q.ScatterPct)
	}
	if q.ActivePct != "67%" || q.PassivePct != "33%" {
		t.Errorf("active/passive = %s/%s", q.ActivePct, q.PassivePct)
	}
}

func TestComputeComplementsSumToOne(t *testing.T) {
	cases := [][]classify.Item{
		{it(7, classify.DeepFocus), it(13, classify.SocialDuty)},
		{it(1, classify.DeepFocus), it(2, classify.Recharge), it(3, classify.Dissolved)},
		{it(100, classify.SocialDuty)},
		{it(45, classify.DeepFocus), it(45, classify.RoutineLife)},
	}

	for i, c := range cases {
		items := spec(c...)
		q := Compute(items, spectrum.Total(items), classify.Todos{})
		if q.EffectiveMin == 0 {
			t.Fatalf("case %d: unexpected zero effective duration", i)
		}
		if q.FocusRatio+q.ScatterRatio != 1 {
			t.Errorf("case %d: focus+scatter = %v", i, q.FocusRatio+q.ScatterRatio)
		}
		if q.ActiveRatio+q.PassiveRatio != 1 {
			t.Errorf("case %d: active+passive = %v", i, q.ActiveRatio+q.PassiveRatio)
		}
	}
}

func TestComputeOnlyNeutralTime(t *testing.T) {
	items := spec(it(420, classify.BodyMaintenance), it(60, classify.RoutineLife))
	q := Compute(items, 480, classify.Todos{Completed: 1, Total: 2})
	if q.EffectiveMin != 0 {
		t.Errorf("EffectiveMin = %d", q.EffectiveMin)
	}
	if q.FocusRatio != 0 || q.ScatterRatio != 0 || q.ActiveRatio != 0 || q.PassiveRatio != 0 {
		t.Errorf("ratios should all be 0: %+v", q)
	}
}

func TestComputeUnderstatedTotalIsClamped(t *testing.T) {
	// Caller-supplied total smaller than the deep focus time.
	items := spectrum.Aggregate([]classify.Item{it(200, classify.DeepFocus)}, 100)
	q := Compute(items, 100, classify.Todos{})
	if q.FocusRatio != 1 || q.ScatterRatio != 0 {
		t.Errorf("focus/scatter = %v/%v", q.FocusRatio, q.ScatterRatio)
	}

	// Neutral time larger than the supplied total.
	items = spectrum.Aggregate([]classify.Item{it(200, classify.BodyMaintenance), it(10, classify.DeepFocus)}, 100)
	q = Compute(items, 100, classify.Todos{})
	if q.EffectiveMin != 0 || q.FocusRatio != 0 {
		t.Errorf("effective=%d focus=%v", q.EffectiveMin, q.FocusRatio)
	}
}

func TestComputeTodos(t *testing.T) {
	tests := []struct {
		name     string
		todos    classify.Todos
		wantNil  bool
		wantRate float64
		wantStr  string
	}{
		{"no todos", classify.Todos{}, true, 0, NoTodos},
		{"none done", classify.Todos{Completed: 0, Total: 4}, false, 0, "0/4 (0%)"},
		{"some done", classify.Todos{Completed: 3, Total: 5}, false, 0.6, "3/5 (60%)"},
		{"over-reported", classify.Todos{Completed: 7, Total: 5}, false, 1, "5/5 (100%)"},
		{"completed without total", classify.Todos{Completed: 2, Total: 0}, true, 0, NoTodos},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(nil, 0, tt.todos)
			if tt.wantNil {
				if q.TodoRatio != nil {
					t.Errorf("TodoRatio = %v, want nil", *q.TodoRatio)
				}
			} else {
				if q.TodoRatio == nil {
					t.Fatal("TodoRatio is nil")
				}
				if *q.TodoRatio != tt.wantRate {
					t.Errorf("TodoRatio = %v, want %v", *q.TodoRatio, tt.wantRate)
				}
			}
			if q.TodoStr != tt.wantStr {
				t.Errorf("TodoStr = %q, want %q", q.TodoStr, tt.wantStr)
			}
		})
	}
}
