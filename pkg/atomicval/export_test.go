package atomicval

// NewFallback builds a Value that is forced onto the lock-pool path even
// when the target has a native instruction for T's width. Tests use it to
// stand in for a target without that width, e.g. an 8-byte value on a
// 32-bit machine.
func NewFallback[T any](initial T) *Value[T] {
	v := &Value[T]{}
	v.plain = initial
	return v
}
