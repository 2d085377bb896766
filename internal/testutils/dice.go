package testutils

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// ScriptedRoller is a dice.Roller that returns queued results in order.
// Once the queue runs dry it returns Fallback, or an error when Fallback is 0.
type ScriptedRoller struct {
	mu       sync.Mutex
	results  []int
	Fallback int
}

// NewScriptedRoller queues results
func NewScriptedRoller(results ...int) *ScriptedRoller {
	return &ScriptedRoller{results: results}
}

// Queue appends more results
func (r *ScriptedRoller) Queue(results ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, results...)
}

// Remaining returns how many queued results are unused
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Roll returns the next queued result. Results larger than size are an error.
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.Fallback
	if len(r.results) > 0 {
		next = r.results[0]
		r.results = r.results[1:]
	}
	if next == 0 {
		return 0, fmt.Errorf("scripted roller exhausted")
	}
	if next < 1 || next > size {
		return 0, fmt.Errorf("scripted result %d does not fit a d%d", next, size)
	}
	return next, nil
}

// RollN rolls count results
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Ensure ScriptedRoller implements dice.Roller
var _ dice.Roller = (*ScriptedRoller)(nil)
