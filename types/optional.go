package types

// Optional holds a value the caller may or may not have supplied.
// The zero Optional is absent, so a supplied zero value is never mistaken for "unset".
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a decoded pointer field into an Optional; nil is absent
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was supplied
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value when present, otherwise def
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}
