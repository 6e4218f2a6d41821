// Package acl implements the ACL control-plane core: tables, rules,
// counters, ranges, table groups and table-group members, each backed by an
// OID-keyed registry and driven through the NPU interface in npu.go.
package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
)

// Stage is the pipeline location a table or rule applies at.
type Stage int

const (
	StageIngress Stage = iota
	StageEgress
)

func (s Stage) String() string {
	if s == StageEgress {
		return "EGRESS"
	}
	return "INGRESS"
}

// CounterType is negotiated at counter create time from the
// ENABLE_PACKET_COUNT/ENABLE_BYTE_COUNT flags.
type CounterType int

const (
	CounterBytes CounterType = iota
	CounterPackets
	CounterBytesPackets
)

// RangeType enumerates the packet properties an AclRange can bound.
type RangeType int

const (
	RangePacketLength RangeType = iota
	RangeSrcL4PortRange
	RangeDstL4PortRange
	RangeOuterVlan
)

// ValueKind discriminates the tagged union carried by a filter's
// match_data/match_mask or an action's parameter.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindU8
	KindU16
	KindU32
	KindS32
	KindMAC
	KindIPv4
	KindIPv6
	KindOID
	KindOIDList
	KindBytes
)

// Value is the tagged-union payload for a filter match_data/match_mask or an
// action parameter. Only the field matching Kind is meaningful.
type Value struct {
	Kind    ValueKind
	Bool    bool
	U32     uint32
	S32     int32
	MAC     [6]byte
	IPv4    [4]byte
	IPv6    [16]byte
	OID     oid.OID
	OIDList []oid.OID
	Bytes   []byte
}

// DeepCopy returns a Value with its own backing storage for OIDList/Bytes, so
// the copy can be freed independently of the original (§4.F.4, §9).
func (v Value) DeepCopy() Value {
	cp := v
	if v.OIDList != nil {
		cp.OIDList = append([]oid.OID(nil), v.OIDList...)
	}
	if v.Bytes != nil {
		cp.Bytes = append([]byte(nil), v.Bytes...)
	}
	return cp
}

// Equal compares two values of the same Kind per the rules in §4.F.2:
// byte-lists compare length first then contents, object-lists element-wise,
// scalars byte-wise.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindU8, KindU16, KindU32:
		return v.U32 == o.U32
	case KindS32:
		return v.S32 == o.S32
	case KindMAC:
		return v.MAC == o.MAC
	case KindIPv4:
		return v.IPv4 == o.IPv4
	case KindIPv6:
		return v.IPv6 == o.IPv6
	case KindOID:
		return v.OID == o.OID
	case KindOIDList:
		if len(v.OIDList) != len(o.OIDList) {
			return false
		}
		for i := range v.OIDList {
			if v.OIDList[i] != o.OIDList[i] {
				return false
			}
		}
		return true
	case KindBytes:
		if len(v.Bytes) != len(o.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != o.Bytes[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AclFilter is one entry of a rule's filter_list.
type AclFilter struct {
	FieldTag     AttrID
	Enable       bool
	MatchData    Value
	MatchMask    Value
	UDFGroupOID  oid.OID // set only when FieldTag is a UDF field
	UDFGroupHWID uint32
}

// AclAction is one entry of a rule's action_list.
type AclAction struct {
	ActionTag AttrID
	Enable    bool
	Parameter Value
}

// AclTable is the software model of an ACL table (§3.1).
type AclTable struct {
	OID         oid.OID
	Stage       Stage
	Priority    uint32
	Size        uint32 // 0 = dynamic
	GroupOID    oid.OID
	FieldSet    []AttrID
	UDFFieldSet []UDFFieldBinding
	RuleList    []oid.OID // priority-sorted, ties by insertion order
	RuleCount   int
	CounterCount int
	NPUHandle   uint64
	Materialized bool
	VirtualGroup bool
}

// UDFFieldBinding records a UDF-field attribute admitted on a table, and the
// UDF group + NPU id it resolves to.
type UDFFieldBinding struct {
	FieldTag     AttrID
	UDFGroupOID  oid.OID
	UDFGroupHWID uint32
}

// AclRule is the software model of an ACL rule (§3.1).
type AclRule struct {
	OID         oid.OID
	Priority    uint32
	TableOID    oid.OID
	AdminState  bool
	FilterList  []AclFilter
	ActionList  []AclAction
	CounterOID  oid.OID
	PolicerOID  oid.OID
	SampleOID   [2]oid.OID // indexed by Stage
	NPUHandle   uint64
}

// AclCounter is the software model of an ACL counter (§3.1).
type AclCounter struct {
	OID         oid.OID
	TableOID    oid.OID
	Type        CounterType
	SharedCount uint32
	NPUHandle   uint64
}

// AclRange is the software model of an ACL range object (§3.1).
type AclRange struct {
	OID      oid.OID
	Type     RangeType
	Min      uint32
	Max      uint32
	RefCount uint32
	NPUHandle uint64
}

// AclTableGroup is the software model of an ACL table group (§3.1).
type AclTableGroup struct {
	OID               oid.OID
	Stage             Stage
	GroupType         int
	BindPointTypeList []int
	MemberList        []oid.OID
}

// AclTableGroupMember links a table into a table group at a given priority.
type AclTableGroupMember struct {
	OID      oid.OID
	GroupOID oid.OID
	TableOID oid.OID
	Priority uint32
}
