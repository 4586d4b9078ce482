package containers

// Result carries either a value or the error that prevented producing it.
// It is the element type of fallible iterators.
type Result[T any] struct {
	Value T
	Err   error
}

func (r *Result[T]) IsErr() bool {
	return r.Err != nil
}

// Unwrap returns the value and panics on an Err result.
func (r *Result[T]) Unwrap() T {
	if r.IsErr() {
		panic("called Unwrap on an Err result")
	}
	return r.Value
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Err[T any](err error) Result[T] {
	return Result[T]{Err: err}
}
