package menu

// Status is the outcome of a single prompt.
type Status int

const (
	StatusOK Status = iota
	StatusInvalid
	StatusCancel
)

// Result carries a prompt value or the reason there is none. Message is shown
// to the user on the next render; it replaces any shared message slot.
type Result[T any] struct {
	Status  Status
	Value   T
	Message string
}

func OK[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

func Invalid[T any](msg string) Result[T] {
	return Result[T]{Status: StatusInvalid, Message: msg}
}

func Cancel[T any](msg string) Result[T] {
	return Result[T]{Status: StatusCancel, Message: msg}
}

func (r Result[T]) Ok() bool        { return r.Status == StatusOK }
func (r Result[T]) Cancelled() bool { return r.Status == StatusCancel }
