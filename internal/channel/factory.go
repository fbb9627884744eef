//go:build !debug

package channel

// New creates the pipe used between the fleet loader and its workers.
// Normal builds buffer to the requested size, so a load can queue every
// ship file before the first worker picks one up.
func New[T any](size int) Channel[T] {
	return NewBuffered[T](size)
}
