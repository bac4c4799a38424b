package profile

// Optional holds a value that is either present or absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) (o Optional[T]) {
	o = Optional[T]{value: v, set: true}
	return o
}

// None returns an absent Optional.
func None[T any]() (o Optional[T]) {
	return o
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (v T, ok bool) {
	v = o.value
	ok = o.set
	return v, ok
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() (ok bool) {
	ok = o.set
	return ok
}

// OrElse returns the value if present, otherwise fallback.
func (o Optional[T]) OrElse(fallback T) (v T) {
	if o.set {
		v = o.value
		return v
	}
	v = fallback
	return v
}
