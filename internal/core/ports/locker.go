package ports

import (
	"context"
)

// ResourceLocker serializes work on a set of keys such as "driver:<id>".
//
// Lock blocks until every key is held or ctx is done. The returned unlock
// releases all keys and is safe to call more than once.
type ResourceLocker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}
