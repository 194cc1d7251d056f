package store

import (
	"fmt"
	"reflect"
)

// Resolver normalizes a raw identifier into the key a cache stores it under.
// It must be deterministic. A nil result means the identifier is absent.
type Resolver func(raw any) any

// ResolveIdentity uses the raw identifier as the key, so 1 and "1" are distinct.
func ResolveIdentity(raw any) any {
	return raw
}

// ResolveString coerces identifiers to their string form, so 1 and "1" collide.
func ResolveString(raw any) any {
	if raw == nil {
		return nil
	}
	if s, ok := raw.(string); ok {
		return s
	}

	return fmt.Sprint(raw)
}

// usableKey reports whether key can index the instance map. The dynamic value
// is checked, so an array of any holding a slice is rejected.
func usableKey(key any) bool {
	if key == nil {
		return false
	}

	return reflect.ValueOf(key).Comparable()
}
