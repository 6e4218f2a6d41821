package udf

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
	"github.com/newtron-network/aclcore/pkg/util"
)

// CreateUDF validates base and the group/match references, defaults the
// hash mask when the owning group is HASH-typed and none was supplied,
// rejects an explicit mask on a GENERIC group, materializes the UDF in
// hardware, and links it into the group's udf_list (§4.D).
func (c *Core) CreateUDF(groupOID, matchOID oid.OID, base Base, offset uint16, hashMask []byte) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !groupOID.IsType(oid.TypeUdfGroup) {
		return oid.Null, status.New(status.InvalidObjectType, "group oid is not a udf group")
	}
	if !matchOID.IsNull() && !matchOID.IsType(oid.TypeUdfMatch) {
		return oid.Null, status.New(status.InvalidObjectType, "match oid is not a udf match")
	}
	if base != BaseL2 && base != BaseL3 && base != BaseL4 {
		return oid.Null, status.New(status.InvalidAttrValueBase, "invalid udf base %d", base)
	}
	group, ok := c.groups[groupOID]
	if !ok {
		return oid.Null, status.New(status.InvalidObjectID, "udf group %v not found", groupOID)
	}

	switch {
	case group.Type == GroupHash && len(hashMask) == 0:
		hashMask = make([]byte, group.Length)
		for i := range hashMask {
			hashMask[i] = 0xFF
		}
	case group.Type == GroupHash && len(hashMask) != int(group.Length):
		return oid.Null, status.New(status.InvalidAttributeBase, "hash mask length %d does not match group length %d", len(hashMask), group.Length)
	case group.Type == GroupGeneric && len(hashMask) != 0:
		return oid.Null, status.New(status.InvalidAttributeBase, "hash mask is not permitted on a generic udf group")
	}

	index, err := c.udfAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeUdf, index)

	u := &UDF{OID: newOID, GroupOID: groupOID, MatchOID: matchOID, Base: base, Offset: offset, HashMask: hashMask}
	handle, err := c.npu.CreateUDF(u)
	if err != nil {
		return oid.Null, err
	}
	u.NPUHandle = handle

	c.udfs[newOID] = u
	group.UDFList = append(group.UDFList, newOID)
	group.UDFCount++
	util.WithSubsystem("udf").WithField("oid", newOID).Debug("udf created")
	return newOID, nil
}

// DeleteUDF removes the UDF from the registry first, then unlinks it from
// its group, then tells the NPU — the order named in §4.D.
func (c *Core) DeleteUDF(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.udfs[o]
	if !ok {
		return status.New(status.ItemNotFound, "udf %v not found", o)
	}
	delete(c.udfs, o)

	group := c.groups[u.GroupOID]
	if group != nil {
		for i, m := range group.UDFList {
			if m == o {
				group.UDFList = append(group.UDFList[:i], group.UDFList[i+1:]...)
				break
			}
		}
		group.UDFCount--
	}

	if err := c.npu.DeleteUDF(u.NPUHandle); err != nil {
		c.udfs[o] = u
		if group != nil {
			group.UDFList = append(group.UDFList, o)
			group.UDFCount++
		}
		return err
	}
	return nil
}

// SetHashMask replaces a UDF's hash mask using the snapshot-mutate-push-
// commit pattern: the live object is never half-mutated (§4.D).
func (c *Core) SetHashMask(o oid.OID, mask []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.udfs[o]
	if !ok {
		return status.New(status.ItemNotFound, "udf %v not found", o)
	}
	group := c.groups[u.GroupOID]
	if group == nil || group.Type != GroupHash {
		return status.New(status.InvalidAttributeBase, "hash mask is only settable on a udf bound to a hash group")
	}
	if len(mask) != int(group.Length) {
		return status.New(status.InvalidAttrValueBase, "hash mask length %d does not match group length %d", len(mask), group.Length)
	}

	candidate := append([]byte(nil), mask...)

	if err := c.npu.SetUDFHashMask(u.NPUHandle, candidate); err != nil {
		return err
	}
	u.HashMask = candidate
	return nil
}

// GetUDF returns a read-only copy of the UDF's software state.
func (c *Core) GetUDF(o oid.OID) (UDF, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.udfs[o]
	if !ok {
		return UDF{}, status.New(status.ItemNotFound, "udf %v not found", o)
	}
	cp := *u
	cp.HashMask = append([]byte(nil), u.HashMask...)
	return cp, nil
}
