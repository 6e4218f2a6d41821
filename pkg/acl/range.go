package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// CreateRange implements full CRUD for an ACL range object with ref_count
// gating on delete (§3.1, SUPPLEMENTED FEATURES item 4).
func (c *Core) CreateRange(attrs []Attribute) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpCreate, attrs, func(AttrID) bool { return false }, nil); err != nil {
		return oid.Null, err
	}

	var (
		rt           RangeType
		min, max     uint32
		havType      bool
		havMin       bool
		havMax       bool
	)
	for _, a := range attrs {
		switch a.ID {
		case AttrRangeType:
			rt = RangeType(a.Value.S32)
			havType = true
		case AttrRangeMin:
			min = a.Value.U32
			havMin = true
		case AttrRangeMax:
			max = a.Value.U32
			havMax = true
		}
	}
	if !havType || !havMin || !havMax {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "range type, min and max are mandatory")
	}
	if min > max {
		return oid.Null, status.New(status.InvalidAttrValueBase, "range min %d exceeds max %d", min, max)
	}

	index, err := c.rangeAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeAclRange, index)

	handle, err := c.npu.CreateRange(rt, min, max)
	if err != nil {
		return oid.Null, err
	}

	c.ranges[newOID] = &AclRange{OID: newOID, Type: rt, Min: min, Max: max, NPUHandle: handle}
	return newOID, nil
}

// DeleteRange rejects a range still referenced by a rule filter.
func (c *Core) DeleteRange(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.ranges[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl range %v not found", o)
	}
	if r.RefCount > 0 {
		return status.New(status.ObjectInUse, "acl range %v is referenced by %d rules", o, r.RefCount)
	}

	delete(c.ranges, o)
	if err := c.npu.DeleteRange(r.NPUHandle); err != nil {
		c.ranges[o] = r
		return err
	}
	return nil
}

// GetRange returns a read-only copy of the range's software state.
func (c *Core) GetRange(o oid.OID) (AclRange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.ranges[o]
	if !ok {
		return AclRange{}, status.New(status.ItemNotFound, "acl range %v not found", o)
	}
	return *r, nil
}

// SetRange updates min/max and pushes the change to the NPU.
func (c *Core) SetRange(o oid.OID, attr Attribute) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.ranges[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl range %v not found", o)
	}
	min, max := r.Min, r.Max
	switch attr.ID {
	case AttrRangeMin:
		min = attr.Value.U32
	case AttrRangeMax:
		max = attr.Value.U32
	default:
		return status.New(status.AttrNotSupportedBase, "attribute %v is not settable on a range", attr.ID)
	}
	if min > max {
		return status.New(status.InvalidAttrValueBase, "range min %d exceeds max %d", min, max)
	}
	if err := c.npu.SetRange(r.NPUHandle, min, max); err != nil {
		return err
	}
	r.Min, r.Max = min, max
	return nil
}

// attachRange increments a range's ref_count. The rule create/delete paths
// do not call it or detachRange: no filter field tag in attr.go carries a
// range OID. It is the extension point for a RANGE_LIST filter field.
func (c *Core) attachRange(o oid.OID) {
	if r, ok := c.ranges[o]; ok {
		r.RefCount++
	}
}

func (c *Core) detachRange(o oid.OID) {
	if r, ok := c.ranges[o]; ok && r.RefCount > 0 {
		r.RefCount--
	}
}
