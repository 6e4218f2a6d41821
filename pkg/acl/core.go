package acl

import (
	"sync"

	"github.com/newtron-network/aclcore/pkg/idalloc"
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/udf"
)

const (
	maxTables    = 1 << 12
	maxRules     = 1 << 20
	maxCounters  = 1 << 16
	maxRanges    = 1 << 14
	maxGroups    = 1 << 12
	maxMembers   = 1 << 14
)

// UDFAccessor is the narrow read interface ACL uses to consult the UDF
// subsystem without ever re-entering its mutex (§5). Implemented by
// *udf.Core.
type UDFAccessor interface {
	GroupType(o oid.OID) (udf.GroupType, bool)
	GroupHWID(o oid.OID) (uint32, bool)
}

// Core holds every ACL registry behind a single subsystem mutex (§5). Every
// public entry point acquires the lock on entry and releases it on every
// exit path, including rollback paths.
type Core struct {
	mu sync.Mutex

	npu NPU
	udf UDFAccessor

	tables  map[oid.OID]*AclTable
	rules   map[oid.OID]*AclRule
	counters map[oid.OID]*AclCounter
	ranges  map[oid.OID]*AclRange
	groups  map[oid.OID]*AclTableGroup
	members map[oid.OID]*AclTableGroupMember

	tableAlloc   *idalloc.Allocator
	ruleAlloc    *idalloc.Allocator
	counterAlloc *idalloc.Allocator
	rangeAlloc   *idalloc.Allocator
	groupAlloc   *idalloc.Allocator
	memberAlloc  *idalloc.Allocator
}

// NewCore builds an ACL core bound to the given NPU backend and UDF
// accessor.
func NewCore(npu NPU, udfAccessor UDFAccessor) *Core {
	c := &Core{
		npu:      npu,
		udf:      udfAccessor,
		tables:   make(map[oid.OID]*AclTable),
		rules:    make(map[oid.OID]*AclRule),
		counters: make(map[oid.OID]*AclCounter),
		ranges:   make(map[oid.OID]*AclRange),
		groups:   make(map[oid.OID]*AclTableGroup),
		members:  make(map[oid.OID]*AclTableGroupMember),
	}
	c.tableAlloc = idalloc.New(maxTables, func(i uint32) bool {
		_, ok := c.tables[oid.New(oid.TypeAclTable, i)]
		return ok
	})
	c.ruleAlloc = idalloc.New(maxRules, func(i uint32) bool {
		_, ok := c.rules[oid.New(oid.TypeAclEntry, i)]
		return ok
	})
	c.counterAlloc = idalloc.New(maxCounters, func(i uint32) bool {
		_, ok := c.counters[oid.New(oid.TypeAclCounter, i)]
		return ok
	})
	c.rangeAlloc = idalloc.New(maxRanges, func(i uint32) bool {
		_, ok := c.ranges[oid.New(oid.TypeAclRange, i)]
		return ok
	})
	c.groupAlloc = idalloc.New(maxGroups, func(i uint32) bool {
		_, ok := c.groups[oid.New(oid.TypeAclTableGroup, i)]
		return ok
	})
	c.memberAlloc = idalloc.New(maxMembers, func(i uint32) bool {
		_, ok := c.members[oid.New(oid.TypeAclTableGroupMember, i)]
		return ok
	})
	return c
}
