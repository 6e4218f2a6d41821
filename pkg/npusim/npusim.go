// Package npusim is an in-memory NPU backend implementing both acl.NPU and
// udf.NPU, for use as the "sim" backend (pkg/config's NPUBackend default)
// and in this package's own tests (pkg/acl and pkg/udf test against local
// fakes instead, since importing npusim there would form a cycle). Nothing
// here talks to real hardware; every Create* call hands back a synthetic
// monotonically increasing handle and records just enough state to answer
// Get*/Dump* calls honestly.
package npusim

import (
	"sync"
	"sync/atomic"

	"github.com/newtron-network/aclcore/pkg/acl"
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/udf"
)

// Sim is a single shared NPU simulator instance. It satisfies both acl.NPU
// and udf.NPU so a single backend can drive both cores the way a real ASIC
// SDK session would (one NPU connection for a chip's entire SAI surface).
type Sim struct {
	mu sync.Mutex

	nextHandle uint64

	tables   map[uint64]*acl.AclTable
	rules    map[uint64]*ruleState
	counters map[uint64]*counterState
	ranges   map[uint64]*rangeState
	samples  map[sampleKey]sampleState
	policers map[oid.OID]acl.PolicerMode

	groups  map[uint64]*udf.Group
	udfs    map[uint64]*udf.UDF
	matches map[uint64]*udf.Match
}

type ruleState struct {
	tableHandle uint64
	rule        acl.AclRule
	counters    map[uint64]bool
}

type counterState struct {
	typ    acl.CounterType
	values []uint64
}

type rangeState struct {
	min, max uint32
}

type sampleKey struct {
	ruleHandle uint64
	direction  acl.Stage
}

type sampleState struct {
	sample oid.OID
	ports  []oid.OID
}

// New returns an empty simulator.
func New() *Sim {
	return &Sim{
		tables:   make(map[uint64]*acl.AclTable),
		rules:    make(map[uint64]*ruleState),
		counters: make(map[uint64]*counterState),
		ranges:   make(map[uint64]*rangeState),
		samples:  make(map[sampleKey]sampleState),
		policers: make(map[oid.OID]acl.PolicerMode),

		groups:  make(map[uint64]*udf.Group),
		udfs:    make(map[uint64]*udf.UDF),
		matches: make(map[uint64]*udf.Match),
	}
}

func (s *Sim) handle() uint64 {
	return atomic.AddUint64(&s.nextHandle, 1)
}

// SetPolicerMode registers a fake policer's metering mode for tests to
// exercise the SET_POLICER gate without a real policer subsystem.
func (s *Sim) SetPolicerMode(policer oid.OID, mode acl.PolicerMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policers[policer] = mode
}

func (s *Sim) PolicerMode(policer oid.OID) (acl.PolicerMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode, ok := s.policers[policer]
	return mode, ok
}
