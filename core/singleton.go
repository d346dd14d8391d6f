package core

// Singleton holds one instance of T per simulation run. The instance is
// built lazily on first Get and released by a destroy hook, so the next
// simulation in the same process starts from a fresh one.
type Singleton[T any] struct {
	build    func() *T
	instance *T
}

// NewSingleton declares a simulation-scoped singleton. Declare it once at
// package scope; call Get wherever the instance is needed.
func NewSingleton[T any](build func() *T) *Singleton[T] {
	return &Singleton[T]{build: build}
}

// Get returns the per-simulation instance, constructing it on first use.
func (s *Singleton[T]) Get() *T {
	if s.instance == nil {
		s.instance = s.build()
		ScheduleDestroy(func() { s.instance = nil })
	}
	return s.instance
}
