package trends

import (
	"testing"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/light"
	"github.com/johns/time-spectrum/internal/spectrum"
)

func ratio(v float64) *float64 { return &v }

func focusDays(mins ...int) []Snapshot {
	out := make([]Snapshot, len(mins))
	for i, m := range mins {
		out[i] = Snapshot{DeepFocusMin: m}
	}
	return out
}

func find(signals []Signal, m Metric) (Signal, bool) {
	for _, s := range signals {
		if s.Metric == m {
			return s, true
		}
	}
	return Signal{}, false
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	got := Analyze(Snapshot{DeepFocusMin: 120, TodoRatio: ratio(0.5)}, nil)
	if len(got) != 0 {
		t.Errorf("expected no signals, got %d", len(got))
	}
}

func TestAnalyzeDeepFocusStreak(t *testing.T) {
	history := focusDays(60, 90, 120)
	got := Analyze(Snapshot{DeepFocusMin: 150}, history, MetricDeepFocus)

	s, ok := find(got, MetricDeepFocus)
	if !ok {
		t.Fatal("expected deep focus signal")
	}
	if s.Direction != Up {
		t.Errorf("Direction = %q, want up", s.Direction)
	}
	if !s.IsPositive {
		t.Error("expected IsPositive")
	}
	if !s.ConsecutiveUp {
		t.Error("expected ConsecutiveUp")
	}
	if s.ConsecutiveDays != 3 {
		t.Errorf("ConsecutiveDays = %d, want 3", s.ConsecutiveDays)
	}
	if s.Delta != 67 {
		t.Errorf("Delta = %d, want 67", s.Delta)
	}
	if s.Today != "2h 30min" || s.Average != "1h 30min" {
		t.Errorf("Today/Average = %q/%q", s.Today, s.Average)
	}
	if s.IsWarning {
		t.Error("unexpected warning")
	}
}

func TestAnalyzeDeepFocusSmallSteadyRise(t *testing.T) {
	got := Analyze(Snapshot{DeepFocusMin: 106}, focusDays(100, 102, 104), MetricDeepFocus)
	s, ok := find(got, MetricDeepFocus)
	if !ok {
		t.Fatal("expected signal")
	}
	if s.Direction != Flat || s.Delta != 4 {
		t.Errorf("Direction=%q Delta=%d, want flat +4", s.Direction, s.Delta)
	}
	if !s.IsPositive {
		t.Error("a steady rise should be positive even inside the flat band")
	}
	if !s.ConsecutiveUp || s.ConsecutiveDays != 3 {
		t.Errorf("ConsecutiveDays=%d ConsecutiveUp=%v", s.ConsecutiveDays, s.ConsecutiveUp)
	}
}

func TestAnalyzeDeepFocusUpButNotMonotonic(t *testing.T) {
	history := focusDays(120, 60, 90)
	got := Analyze(Snapshot{DeepFocusMin: 150}, history, MetricDeepFocus)
	s, ok := find(got, MetricDeepFocus)
	if !ok {
		t.Fatal("expected signal")
	}
	if s.Direction != Up {
		t.Errorf("Direction = %q", s.Direction)
	}
	if s.IsPositive {
		t.Error("dip inside the window should block IsPositive")
	}
	if s.ConsecutiveDays != 2 || s.ConsecutiveUp {
		t.Errorf("ConsecutiveDays=%d ConsecutiveUp=%v", s.ConsecutiveDays, s.ConsecutiveUp)
	}
}

func TestAnalyzeDeepFocusWarning(t *testing.T) {
	history := focusDays(120, 120)
	got := Analyze(Snapshot{DeepFocusMin: 60}, history, MetricDeepFocus)
	s, ok := find(got, MetricDeepFocus)
	if !ok {
		t.Fatal("expected signal")
	}
	if s.Direction != Down || !s.IsWarning || s.IsPositive {
		t.Errorf("got %+v", s)
	}
	if s.Delta != -50 {
		t.Errorf("Delta = %d, want -50", s.Delta)
	}

	// 80 of 120 is below average but above 60% of it.
	got = Analyze(Snapshot{DeepFocusMin: 80}, history, MetricDeepFocus)
	s, _ = find(got, MetricDeepFocus)
	if s.IsWarning {
		t.Error("80/120 should not warn")
	}
}

func TestAnalyzeDeepFocusMinimumHistory(t *testing.T) {
	got := Analyze(Snapshot{DeepFocusMin: 60}, focusDays(30), MetricDeepFocus)
	if len(got) != 0 {
		t.Errorf("one prior day should not be enough, got %+v", got)
	}
}

func TestAnalyzeDeepFocusFromZeroAverage(t *testing.T) {
	got := Analyze(Snapshot{DeepFocusMin: 45}, focusDays(0, 0), MetricDeepFocus)
	s, ok := find(got, MetricDeepFocus)
	if !ok {
		t.Fatal("expected signal")
	}
	if s.Delta != 100 || s.Direction != Up {
		t.Errorf("got %+v", s)
	}

	got = Analyze(Snapshot{}, focusDays(0, 0), MetricDeepFocus)
	s, _ = find(got, MetricDeepFocus)
	if s.Delta != 0 || s.Direction != Flat || s.IsWarning {
		t.Errorf("zero against zero: got %+v", s)
	}
}

func TestAnalyzeTodoRate(t *testing.T) {
	history := []Snapshot{
		{TodoRatio: ratio(0.8)},
		{TodoRatio: nil},
		{TodoRatio: ratio(0.6)},
		{TodoRatio: ratio(0.7)},
	}

	got := Analyze(Snapshot{TodoRatio: ratio(0.5)}, history, MetricTodoRate)
	s, ok := find(got, MetricTodoRate)
	if !ok {
		t.Fatal("expected todo signal")
	}
	if s.Delta != -20 {
		t.Errorf("Delta = %d, want -20", s.Delta)
	}
	if s.Direction != Down || !s.IsWarning {
		t.Errorf("got %+v", s)
	}
	if s.Average != "70%" || s.Today != "50%" {
		t.Errorf("Today/Average = %q/%q", s.Today, s.Average)
	}
	if s.ConsecutiveDays != 0 {
		t.Errorf("todo rate is not a streak metric, got %d", s.ConsecutiveDays)
	}

	got = Analyze(Snapshot{TodoRatio: ratio(0.73)}, history, MetricTodoRate)
	s, _ = find(got, MetricTodoRate)
	if s.Direction != Flat || !s.IsPositive || s.IsWarning {
		t.Errorf("small gain: got %+v", s)
	}

	got = Analyze(Snapshot{TodoRatio: ratio(0.68)}, history, MetricTodoRate)
	s, _ = find(got, MetricTodoRate)
	if s.Direction != Flat || s.IsPositive || s.IsWarning {
		t.Errorf("small loss: got %+v", s)
	}

	got = Analyze(Snapshot{TodoRatio: ratio(0.9)}, history, MetricTodoRate)
	s, _ = find(got, MetricTodoRate)
	if s.Direction != Up || !s.IsPositive {
		t.Errorf("up case: got %+v", s)
	}
}

func TestAnalyzeTodoRateSkipsUndefined(t *testing.T) {
	// Only two defined points: below the todo minimum.
	history := []Snapshot{{TodoRatio: ratio(1)}, {}, {TodoRatio: ratio(0.5)}, {}}
	if got := Analyze(Snapshot{TodoRatio: ratio(0.5)}, history, MetricTodoRate); len(got) != 0 {
		t.Errorf("expected no signal, got %+v", got)
	}

	// No todos today: nothing to compare.
	full := []Snapshot{{TodoRatio: ratio(1)}, {TodoRatio: ratio(1)}, {TodoRatio: ratio(1)}}
	if got := Analyze(Snapshot{}, full, MetricTodoRate); len(got) != 0 {
		t.Errorf("expected no signal without todos today, got %+v", got)
	}
}

func TestAnalyzeWindow(t *testing.T) {
	// Nine prior days; only the last seven (all 100) count.
	history := focusDays(1000, 1000, 100, 100, 100, 100, 100, 100, 100)
	got := Analyze(Snapshot{DeepFocusMin: 100}, history, MetricDeepFocus)
	s, ok := find(got, MetricDeepFocus)
	if !ok {
		t.Fatal("expected signal")
	}
	if s.Delta != 0 || s.Direction != Flat {
		t.Errorf("got %+v", s)
	}
}

func TestAnalyzeCapAndDefaults(t *testing.T) {
	history := []Snapshot{
		{DeepFocusMin: 60, TodoRatio: ratio(0.5)},
		{DeepFocusMin: 60, TodoRatio: ratio(0.5)},
		{DeepFocusMin: 60, TodoRatio: ratio(0.5)},
	}
	today := Snapshot{DeepFocusMin: 90, TodoRatio: ratio(0.9)}

	got := Analyze(today, history)
	if len(got) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(got))
	}
	if got[0].Metric != MetricTodoRate || got[1].Metric != MetricDeepFocus {
		t.Errorf("order = %q, %q", got[0].Metric, got[1].Metric)
	}

	got = Analyze(today, history, MetricDeepFocus, MetricTodoRate, MetricDeepFocus)
	if len(got) != MaxSignals {
		t.Errorf("expected cap of %d, got %d", MaxSignals, len(got))
	}

	got = Analyze(today, history, Metric("sleep"))
	if len(got) != 0 {
		t.Errorf("unknown metric should be ignored, got %+v", got)
	}
}

func TestSnapshotOf(t *testing.T) {
	items := spectrum.Aggregate([]classify.Item{
		{Name: "写代码", DurationMin: 90, Category: classify.DeepFocus},
		{Name: "午睡", DurationMin: 30, Category: classify.BodyMaintenance},
	}, 120)
	q := light.Compute(items, 120, classify.Todos{Completed: 1, Total: 4})

	s := SnapshotOf(items, q)
	if s.DeepFocusMin != 90 {
		t.Errorf("DeepFocusMin = %d", s.DeepFocusMin)
	}
	if s.TodoRatio == nil || *s.TodoRatio != 0.25 {
		t.Errorf("TodoRatio = %v", s.TodoRatio)
	}
}

func TestDirectionGlyph(t *testing.T) {
	if Up.Glyph() != "↑" || Down.Glyph() != "↓" || Flat.Glyph() != "→" {
		t.Error("unexpected glyphs")
	}
}

func TestSignalString(t *testing.T) {
	s := Signal{Metric: MetricDeepFocus, Name: "深度专注时长", Today: "2h", Average: "1h", Delta: 100, Direction: Up}
	want := "深度专注时长 2h (近期均值 1h) ↑ +100%"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseMetric(t *testing.T) {
	if m, ok := ParseMetric("deep_focus"); !ok || m != MetricDeepFocus {
		t.Errorf("deep_focus = %q, %v", m, ok)
	}
	if m, ok := ParseMetric("todo_rate"); !ok || m != MetricTodoRate {
		t.Errorf("todo_rate = %q, %v", m, ok)
	}
	if _, ok := ParseMetric("sleep"); ok {
		t.Error("unknown metric should not parse")
	}
}
