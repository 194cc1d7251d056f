package mapsafe

// Get retrieves a typed value from a map[string]any.
// If the key is missing or the value cannot be converted, it returns defaultValue.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	if v, ok := Lookup[T](m, key); ok {
		return v
	}
	return defaultValue
}

// Lookup retrieves a typed value from a map[string]any and reports whether
// the key was present and convertible to T.
// Numbers decoded from YAML or JSON are converted between int and float64.
func Lookup[T any](m map[string]any, key string) (T, bool) {
	var zero T

	val, ok := m[key]
	if !ok {
		return zero, false
	}

	switch any(zero).(type) {
	case int:
		switch x := val.(type) {
		case int:
			return any(x).(T), true
		case int64:
			return any(int(x)).(T), true
		case uint64:
			return any(int(x)).(T), true
		case float64:
			return any(int(x)).(T), true
		}
	case float64:
		switch x := val.(type) {
		case float64:
			return any(x).(T), true
		case int:
			return any(float64(x)).(T), true
		case int64:
			return any(float64(x)).(T), true
		}
	default:
		// fallback: the value already has type T
		if v, ok := val.(T); ok {
			return v, true
		}
	}

	return zero, false
}
