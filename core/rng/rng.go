// Package rng provides random variable streams for model code, built on
// the L'Ecuyer MRG32k3a generator. Each variable draws from its own
// substream; substreams are assigned in allocation order, so a simulation
// that creates its variables in the same order replays the same values.
package rng

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
)

// allocator hands out per-simulation stream indices. It is simulation
// scoped: Destroy resets it, so a second run in the same process assigns
// the same stream identities again.
type allocator struct {
	next uint64
}

var streams = core.NewSingleton(func() *allocator { return &allocator{} })

// newStream allocates the next substream. The label names the consumer in
// diagnostics; the draw sequence is fixed by allocation order.
func newStream(label string) *rngstream.RngStream {
	a := streams.Get()
	idx := a.next
	a.next++
	return rngstream.New(fmt.Sprintf("%s-%d", label, idx))
}
