package core

import (
	"container/heap"

	"golang.org/x/exp/slices"
)

// Scheduler is the ordered store of pending events. Events pop in
// (fire time, tiebreak) order; the tiebreak is strictly increasing across
// inserts, so ties in fire time resolve FIFO. Backends differ only in cost
// profile, never in pop order.
type Scheduler interface {
	Insert(ev *event)
	// PeekNext returns the next event without removing it, nil if empty.
	PeekNext() *event
	// PopNext removes and returns the next event, nil if empty.
	PopNext() *event
	// Remove eagerly drops the event with the given uid. Unknown uids are
	// a no-op and return false.
	Remove(uid uint64) bool
	Len() int
}

func eventBefore(a, b *event) bool {
	if a.ts != b.ts {
		return a.ts < b.ts
	}
	return a.tiebreak < b.tiebreak
}

// === binary heap backend ===

// heapScheduler is a binary heap on (fire time, tiebreak) with a uid →
// position index so Remove stays O(log n).
type heapScheduler struct {
	events []*event
	pos    map[uint64]int
}

// NewHeapScheduler returns the default scheduler backend.
func NewHeapScheduler() Scheduler {
	return &heapScheduler{pos: make(map[uint64]int)}
}

func (s *heapScheduler) Len() int { return len(s.events) }

func (s *heapScheduler) Less(i, j int) bool { return eventBefore(s.events[i], s.events[j]) }

func (s *heapScheduler) Swap(i, j int) {
	s.events[i], s.events[j] = s.events[j], s.events[i]
	s.pos[s.events[i].uid] = i
	s.pos[s.events[j].uid] = j
}

func (s *heapScheduler) Push(x any) {
	ev := x.(*event)
	s.pos[ev.uid] = len(s.events)
	s.events = append(s.events, ev)
}

func (s *heapScheduler) Pop() any {
	n := len(s.events)
	ev := s.events[n-1]
	s.events = s.events[:n-1]
	delete(s.pos, ev.uid)
	return ev
}

func (s *heapScheduler) Insert(ev *event) {
	heap.Push(s, ev)
}

func (s *heapScheduler) PeekNext() *event {
	if len(s.events) == 0 {
		return nil
	}
	return s.events[0]
}

func (s *heapScheduler) PopNext() *event {
	if len(s.events) == 0 {
		return nil
	}
	return heap.Pop(s).(*event)
}

func (s *heapScheduler) Remove(uid uint64) bool {
	i, ok := s.pos[uid]
	if !ok {
		return false
	}
	heap.Remove(s, i)
	return true
}

// === sorted list backend ===

// listScheduler keeps events fully sorted. Insert is O(n) in the worst
// case but pop is O(1); it exists to show the contract is backend
// independent.
type listScheduler struct {
	events []*event
}

// NewListScheduler returns the sorted-list scheduler backend.
func NewListScheduler() Scheduler {
	return &listScheduler{}
}

func (s *listScheduler) Len() int { return len(s.events) }

func (s *listScheduler) Insert(ev *event) {
	i, _ := slices.BinarySearchFunc(s.events, ev, func(a, b *event) int {
		if eventBefore(a, b) {
			return -1
		}
		if eventBefore(b, a) {
			return 1
		}
		return 0
	})
	s.events = slices.Insert(s.events, i, ev)
}

func (s *listScheduler) PeekNext() *event {
	if len(s.events) == 0 {
		return nil
	}
	return s.events[0]
}

func (s *listScheduler) PopNext() *event {
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

func (s *listScheduler) Remove(uid uint64) bool {
	for i, ev := range s.events {
		if ev.uid == uid {
			s.events = slices.Delete(s.events, i, i+1)
			return true
		}
	}
	return false
}
