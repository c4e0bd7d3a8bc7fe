package loadstate

// Ticket identifies one issued request of a fetch kind.
type Ticket uint64

// State is an immutable view of a fetch kind.
type State[T any] struct {
	Status Status
	Value  T
	// Err is the failure recorded by the last completed request; it is
	// cleared when the next request of the same kind begins.
	Err error
	// Applied is the ticket whose result produced Value, zero before any.
	Applied Ticket
}

// Loading reports whether a request of this kind is outstanding.
func (s State[T]) Loading() bool {
	return s.Status == StatusLoading
}

// Slot owns the value and lifecycle of one fetch kind. Results are applied
// only for the most recently issued ticket; older responses are dropped.
//
// Slot is not safe for concurrent use; the owning store serializes access.
type Slot[T any] struct {
	state  State[T]
	issued Ticket
}

// NewSlot returns an idle slot holding initial.
func NewSlot[T any](initial T) Slot[T] {
	return Slot[T]{state: State[T]{Status: StatusIdle, Value: initial}}
}

// Begin issues a new ticket, marks the slot loading and clears the error.
func (s *Slot[T]) Begin() Ticket {
	s.issued++
	s.state.Status = StatusLoading
	s.state.Err = nil
	return s.issued
}

// Current reports whether t is the latest issued ticket.
func (s *Slot[T]) Current(t Ticket) bool {
	return t == s.issued
}

// Resolve stores value for ticket t. It returns false when t is stale.
func (s *Slot[T]) Resolve(t Ticket, value T) bool {
	if !s.Current(t) {
		return false
	}
	s.state = State[T]{Status: StatusSuccess, Value: value, Applied: t}
	return true
}

// Fail records err and replaces the value with fallback for ticket t.
// It returns false when t is stale.
func (s *Slot[T]) Fail(t Ticket, err error, fallback T) bool {
	if !s.Current(t) {
		return false
	}
	s.state = State[T]{Status: StatusError, Value: fallback, Err: err, Applied: t}
	return true
}

// Update rewrites the value in place without touching status or tickets.
func (s *Slot[T]) Update(fn func(T) T) {
	s.state.Value = fn(s.state.Value)
}

// State returns the current view.
func (s *Slot[T]) State() State[T] {
	return s.state
}

// Issued returns the latest issued ticket.
func (s *Slot[T]) Issued() Ticket {
	return s.issued
}
