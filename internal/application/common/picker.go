package common

import (
	"math/rand"
	"sync"
)

// RandomPicker is a goroutine-safe uniform picker
type RandomPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPicker creates a picker seeded with seed
func NewRandomPicker(seed int64) *RandomPicker {
	return &RandomPicker{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform index in [0, n)
func (p *RandomPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}
