package client

// Result is the outcome of one backend call: either a value or an error.
// Callers decide how a failure is presented.
type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}
