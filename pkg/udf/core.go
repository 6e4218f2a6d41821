package udf

import (
	"sync"

	"github.com/newtron-network/aclcore/pkg/idalloc"
	"github.com/newtron-network/aclcore/pkg/oid"
)

const (
	maxGroups  = 1 << 16
	maxUDFs    = 1 << 16
	maxMatches = 1 << 16
)

// Core holds every UDF registry behind a single subsystem mutex (§5). Public
// methods acquire the lock on entry and release it on every exit path.
// Accessor methods consumed by the ACL subsystem (GroupType, GroupHWID) are
// deliberately lock-free reads — ACL calls them while holding its own lock,
// and §5 forbids UDF calling back into ACL or re-entering its own mutex from
// a nested call, so those two accessors never take mu.
type Core struct {
	mu sync.Mutex

	npu NPU

	groups  map[oid.OID]*Group
	udfs    map[oid.OID]*UDF
	matches map[oid.OID]*Match

	groupAlloc *idalloc.Allocator
	udfAlloc   *idalloc.Allocator
	matchAlloc *idalloc.Allocator
}

// NewCore builds a UDF core bound to the given NPU backend.
func NewCore(npu NPU) *Core {
	c := &Core{
		npu:     npu,
		groups:  make(map[oid.OID]*Group),
		udfs:    make(map[oid.OID]*UDF),
		matches: make(map[oid.OID]*Match),
	}
	c.groupAlloc = idalloc.New(maxGroups, func(i uint32) bool {
		_, ok := c.groups[oid.New(oid.TypeUdfGroup, i)]
		return ok
	})
	c.udfAlloc = idalloc.New(maxUDFs, func(i uint32) bool {
		_, ok := c.udfs[oid.New(oid.TypeUdf, i)]
		return ok
	})
	c.matchAlloc = idalloc.New(maxMatches, func(i uint32) bool {
		_, ok := c.matches[oid.New(oid.TypeUdfMatch, i)]
		return ok
	})
	return c
}

// GroupType reports the type of the UDF group named by o, for the ACL table
// validator to admit only GENERIC groups on ACL tables (§9 Open Question).
// Lock-free by design — see Core's doc comment.
func (c *Core) GroupType(o oid.OID) (GroupType, bool) {
	g, ok := c.groups[o]
	if !ok {
		return 0, false
	}
	return g.Type, true
}

// GroupHWID reports the NPU handle of the UDF group named by o, used by ACL
// rule populate to stamp UDF filters. Lock-free by design.
func (c *Core) GroupHWID(o oid.OID) (uint32, bool) {
	g, ok := c.groups[o]
	if !ok {
		return 0, false
	}
	return uint32(g.NPUHandle), true
}
