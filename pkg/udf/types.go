// Package udf implements the UDF (User-Defined Field) control-plane core:
// UDF groups, UDF objects and UDF matches, with the group<->udf
// back-references and hash-mask defaulting described in §4.D.
package udf

import "github.com/newtron-network/aclcore/pkg/oid"

// GroupType distinguishes a plain match-only UDF group from one feeding the
// hashing subsystem.
type GroupType int

const (
	GroupGeneric GroupType = iota
	GroupHash
)

func (t GroupType) String() string {
	if t == GroupHash {
		return "HASH"
	}
	return "GENERIC"
}

// Base is the packet layer a UDF's offset is relative to.
type Base int

const (
	BaseL2 Base = iota
	BaseL3
	BaseL4
)

// Group is the software model of a UdfGroup (§3.1).
type Group struct {
	OID       oid.OID
	Type      GroupType
	Length    uint16
	UDFList   []oid.OID
	UDFCount  int
	NPUHandle uint64
}

// UDF is the software model of a Udf object (§3.1).
type UDF struct {
	OID      oid.OID
	GroupOID oid.OID
	MatchOID oid.OID
	Base     Base
	Offset   uint16
	HashMask []byte
	NPUHandle uint64
}

// Match is the software model of a UdfMatch. Storage is delegated to the
// NPU layer; the core only mediates OID/type validation (§4.D).
type Match struct {
	OID     oid.OID
	L2Type  uint32
	L3Type  uint32
	GREType uint32
	Priority uint32
}
