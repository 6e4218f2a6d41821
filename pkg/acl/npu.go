package acl

import "github.com/newtron-network/aclcore/pkg/oid"

// NPU is the hardware-programming boundary the ACL core drives (§6.2). The
// core never touches hardware directly; everything below is invoked with
// the subsystem lock held and is expected to return or fail promptly (§5).
// A failing call must leave no visible state change — the core is
// responsible for any rollback of its own prior steps.
type NPU interface {
	CreateTable(t *AclTable) (handle uint64, err error)
	DeleteTable(handle uint64) error
	ValidateTableField(stage Stage, tag AttrID) error

	CreateRule(tableHandle uint64, r *AclRule) (handle uint64, err error)
	DeleteRule(handle uint64) error
	// SetRule pushes candidate, compare (the pre-change snapshot) and
	// existing to the NPU as one atomic operation (§4.F.2 step 6); on
	// rejection the core applies nothing.
	SetRule(tableHandle uint64, candidate, compare, existing *AclRule) error

	CreateCounter(tableHandle uint64, typ CounterType) (handle uint64, err error)
	DeleteCounter(handle uint64) error
	SetCounter(handle uint64, typ CounterType, values []uint64) error
	GetCounter(handle uint64, wantCount int) ([]uint64, error)
	AttachCounterToRule(ruleHandle, counterHandle uint64) error
	DetachCounterFromRule(ruleHandle, counterHandle uint64) error

	CreateRange(rt RangeType, min, max uint32) (handle uint64, err error)
	DeleteRange(handle uint64) error
	SetRange(handle uint64, min, max uint32) error
	GetRange(handle uint64) (min, max uint32, err error)

	// PolicerMode looks up a peer policer's configured mode so the rule
	// populate routine can enforce the SET_POLICER gate (§4.F.1 step 4,
	// supplemented feature 3). A zero OID or unknown policer yields ok=false.
	PolicerMode(policer oid.OID) (mode PolicerMode, ok bool)
	AttachPolicerToRule(ruleHandle uint64, policer oid.OID) error
	DetachPolicerFromRule(ruleHandle uint64, oldPolicer oid.OID) error

	// CreateSamplePacket (re)binds a rule's sample session in one direction
	// to a port set; an empty ports list means "all ports" (§4.H).
	CreateSamplePacket(ruleHandle uint64, direction Stage, sample oid.OID, ports []oid.OID) error
	RemoveSamplePacket(ruleHandle uint64, direction Stage) error

	DumpTable(handle uint64) string
	DumpRule(handle uint64) string
	DumpCounter(handle uint64) string
}

// PolicerMode is the subset of a peer policer's configured metering mode the
// ACL rule populate routine needs to enforce §4.F.1's SET_POLICER gate.
type PolicerMode int

const (
	PolicerModeUnknown PolicerMode = iota
	PolicerModeSrTCM
	PolicerModeTrTCM
)
