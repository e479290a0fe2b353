package engine

import "github.com/johns/time-spectrum/internal/trends"

// HistoryCap is the number of prior days a History keeps.
const HistoryCap = 7

// History is the caller-owned rolling buffer of prior results, oldest first.
// Methods never modify the receiver's backing array.
type History []ComputedResult

// Append returns a new History with r added and the oldest entries dropped
// beyond HistoryCap.
func (h History) Append(r ComputedResult) History {
	out := make(History, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, r)
	return out.Window(HistoryCap)
}

// Window returns the most recent n entries.
func (h History) Window(n int) History {
	if n <= 0 {
		return nil
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Snapshots converts each entry for the trend analyzer.
func (h History) Snapshots() []trends.Snapshot {
	out := make([]trends.Snapshot, len(h))
	for i, r := range h {
		out[i] = r.Snapshot()
	}
	return out
}
