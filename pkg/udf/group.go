package udf

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
	"github.com/newtron-network/aclcore/pkg/util"
)

// CreateGroup validates type and length, allocates an OID, materializes the
// group in hardware, and inserts it into the registry (§4.D).
func (c *Core) CreateGroup(typ GroupType, length uint16) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if typ != GroupGeneric && typ != GroupHash {
		return oid.Null, status.New(status.InvalidAttrValueBase, "invalid udf group type %d", typ)
	}
	if length == 0 {
		return oid.Null, status.New(status.InvalidAttrValueBase, "group length must be > 0")
	}

	index, err := c.groupAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeUdfGroup, index)

	g := &Group{OID: newOID, Type: typ, Length: length}
	handle, err := c.npu.CreateGroup(g)
	if err != nil {
		return oid.Null, err
	}
	g.NPUHandle = handle

	c.groups[newOID] = g
	util.WithObject(newOID).Debug("udf group created")
	return newOID, nil
}

// DeleteGroup rejects a group that still has UDFs attached (§4.D).
func (c *Core) DeleteGroup(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[o]
	if !ok {
		return status.New(status.ItemNotFound, "udf group %v not found", o)
	}
	if g.UDFCount > 0 {
		return status.New(status.ObjectInUse, "udf group %v still has %d udfs", o, g.UDFCount)
	}

	delete(c.groups, o)
	if err := c.npu.DeleteGroup(g.NPUHandle); err != nil {
		c.groups[o] = g
		return err
	}
	return nil
}

// GetGroup returns a read-only copy of the group's software state.
func (c *Core) GetGroup(o oid.OID) (Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[o]
	if !ok {
		return Group{}, status.New(status.ItemNotFound, "udf group %v not found", o)
	}
	cp := *g
	cp.UDFList = append([]oid.OID(nil), g.UDFList...)
	return cp, nil
}
