package manager

import "errors"

// ErrUnmanagedStore is returned when a configured store name is already taken by a
// store the manager did not register.
var ErrUnmanagedStore = errors.New("store registered outside the manager")
