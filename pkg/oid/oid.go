// Package oid implements the 64-bit object identifier encoding shared by
// every ACL/UDF entity (§6.1): the low 32 bits are an NPU-local index private
// to the object's class, the high bits carry a type tag that can be checked
// without acquiring any subsystem lock.
package oid

// Type tags the object class encoded in the upper bits of an OID.
type Type uint8

const (
	TypeNull Type = iota
	TypeAclTable
	TypeAclEntry
	TypeAclCounter
	TypeAclRange
	TypeAclTableGroup
	TypeAclTableGroupMember
	TypeUdfGroup
	TypeUdf
	TypeUdfMatch
	// TypePolicer, TypeSamplePacket, TypeMirror, TypePort are peer-object
	// types minted outside this module; is_oid_of_type still works on them
	// because the tag lives in the same bit field.
	TypePolicer
	TypeSamplePacket
	TypeMirror
	TypePort
)

var typeNames = map[Type]string{
	TypeNull:                "NULL",
	TypeAclTable:            "ACL_TABLE",
	TypeAclEntry:            "ACL_ENTRY",
	TypeAclCounter:          "ACL_COUNTER",
	TypeAclRange:            "ACL_RANGE",
	TypeAclTableGroup:       "ACL_TABLE_GROUP",
	TypeAclTableGroupMember: "ACL_TABLE_GROUP_MEMBER",
	TypeUdfGroup:            "UDF_GROUP",
	TypeUdf:                 "UDF",
	TypeUdfMatch:            "UDF_MATCH",
	TypePolicer:             "POLICER",
	TypeSamplePacket:        "SAMPLEPACKET",
	TypeMirror:              "MIRROR_SESSION",
	TypePort:                "PORT",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// OID is the 64-bit opaque object handle. Bits 0-31 hold the NPU-local index;
// bits 32-39 hold the type tag; the remaining high bits are reserved and
// always zero today (room for a future generation counter without changing
// the wire shape).
type OID uint64

// Null is the reserved value that never names a live object.
const Null OID = 0

const (
	indexMask = 0xFFFFFFFF
	typeShift = 32
	typeMask  = 0xFF
)

// New builds an OID from a type tag and an NPU-local 32-bit index. index 0 is
// reserved for Null and must not be passed for a live object — callers that
// allocate indices starting at 0 should treat 0 as "no free slot" rather than
// mint it here.
func New(t Type, index uint32) OID {
	return OID(uint64(t)&typeMask)<<typeShift | OID(index)
}

// Index returns the NPU-local 32-bit index encoded in the OID.
func (o OID) Index() uint32 {
	return uint32(o & indexMask)
}

// Type returns the object-class tag encoded in the OID. Decodable without
// any lock, per §6.1.
func (o OID) Type() Type {
	return Type((o >> typeShift) & typeMask)
}

// IsNull reports whether o is the reserved null OID.
func (o OID) IsNull() bool {
	return o == Null
}

// IsType reports whether o is tagged with t. A caller that gets false should
// return INVALID_OBJECT_TYPE (status.InvalidObjectType), per §6.1.
func (o OID) IsType(t Type) bool {
	return !o.IsNull() && o.Type() == t
}

func (o OID) String() string {
	if o.IsNull() {
		return "oid:NULL"
	}
	return o.Type().String() + ":" + itoa(o.Index())
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
