package model

import "errors"

// ErrNotFound is returned by the store layer when a record does not exist or
// is outside the caller's tenant scope. The two cases are deliberately
// indistinguishable so that out-of-scope data is never confirmed to exist.
var ErrNotFound = errors.New("record not found")
