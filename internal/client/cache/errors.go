package cache

import "errors"

// ErrUnknownKey indicates a key outside the fixed set
var ErrUnknownKey = errors.New("unknown cache key")
