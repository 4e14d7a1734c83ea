package preprocess

import "errors"

// ErrUnknownKind is returned by Apply/Reverse for a Kind value outside the
// closed set this package understands.
var ErrUnknownKind = errors.New("preprocess: unknown kind")
