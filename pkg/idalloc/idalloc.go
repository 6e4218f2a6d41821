// Package idalloc provides the per-object-class index allocator shared by
// every ACL/UDF entity table. It mirrors the linear-probe-with-wraparound
// scheme in the original sai_allocate_acl_rule_index: start after the last
// index handed out, scan forward, wrap once, and fail only after a full
// sweep finds nothing free.
package idalloc

import (
	"sync"

	"github.com/newtron-network/aclcore/pkg/status"
)

// InUseFunc reports whether index is currently allocated. Callers pass a
// closure over their own registry rather than handing this package a copy
// of the map, so the allocator never goes stale relative to the registry it
// is allocating for.
type InUseFunc func(index uint32) bool

// Allocator hands out indices in [1, max] for a single object class. Index 0
// is reserved so it can never collide with oid.Null.
type Allocator struct {
	mu     sync.Mutex
	max    uint32
	cursor uint32
	inUse  InUseFunc
}

// New creates an allocator over the index range [1, max]. inUse must consult
// the live registry for the class this allocator is scoped to.
func New(max uint32, inUse InUseFunc) *Allocator {
	return &Allocator{max: max, cursor: 0, inUse: inUse}
}

// Next returns the next free index, starting the scan just after the last
// index returned and wrapping around once. It returns status.TableFull if a
// full sweep finds every index in [1, max] occupied.
func (a *Allocator) Next() (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := uint32(0); i < a.max; i++ {
		a.cursor++
		if a.cursor > a.max {
			a.cursor = 1
		}
		if !a.inUse(a.cursor) {
			return a.cursor, nil
		}
	}
	return 0, status.New(status.TableFull, "all %d entries are exhausted", a.max)
}
