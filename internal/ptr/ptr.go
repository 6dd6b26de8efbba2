// Package ptr holds small generic helpers for the optional (pointer) fields
// used by the configuration types.
package ptr

func FromValue[T any](v T) *T {
	return &v
}

func Clone[T any](x *T) *T {
	if x == nil {
		return nil
	}

	v := *x
	return &v
}

// CloneOr clones x, or fallback when x is unset.
func CloneOr[T any](x *T, fallback *T) *T {
	if x == nil {
		return Clone(fallback)
	}

	return Clone(x)
}

func CloneSliceOr[T any](x []T, fallback []T) []T {
	if x == nil {
		x = fallback
	}

	if x == nil {
		return nil
	}

	return append([]T(nil), x...)
}

func FromPtrOr[T any](x *T, v T) T {
	if x == nil {
		return v
	}

	return *x
}
