package services

// Result is the uniform outcome of a user-facing operation.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

func ok[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: v}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Error: Message(err)}
}
