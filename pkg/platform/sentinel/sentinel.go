package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors.
//
//   - ErrNotFound: no entry or set matches the requested key
//   - ErrInvalidKey: the key cannot be stored (for example a composite that
//     failed to build)
var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidKey = errors.New("invalid key")
)
