package reactive

type WriteableSignal[T comparable] struct {
	node
	rs    *ReactiveSystem
	value T
}

func (s *WriteableSignal[T]) isSignalAware() {}

func (s *WriteableSignal[T]) mountNode() *node { return &s.node }
func (s *WriteableSignal[T]) system() *ReactiveSystem { return s.rs }

func (s *WriteableSignal[T]) Value() T {
	if s.rs.activeSub != nil {
		s.rs.link(&s.node, s.rs.activeSub)
	}
	return s.value
}

// Peek returns the current value without subscribing the caller.
func (s *WriteableSignal[T]) Peek() T {
	return s.value
}

func (s *WriteableSignal[T]) SetValue(v T) {
	if s.value == v {
		return
	}
	s.value = v
	s.rs.instr.SignalWritten()
	if s.subs != nil {
		s.rs.propagate(&s.node)
		if s.rs.batchDepth == 0 {
			s.rs.settle()
		}
	}
}

// Update stores fn applied to the current value.
func (s *WriteableSignal[T]) Update(fn func(T) T) {
	s.SetValue(fn(s.value))
}

// Subscribers is the number of computeds and effects currently linked to s.
func (s *WriteableSignal[T]) Subscribers() int {
	return s.subscriberCount()
}

func (s *WriteableSignal[T]) IsMounted() bool {
	return s.flags&fMounted != 0
}

func Signal[T comparable](rs *ReactiveSystem, initialValue T) *WriteableSignal[T] {
	s := &WriteableSignal[T]{
		rs:    rs,
		value: initialValue,
	}
	s.kind = kindSignal
	s.ref = s
	return s
}
