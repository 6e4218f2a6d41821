package udf

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// CreateMatch is a thin pass-through to the NPU layer; the core only checks
// OID type tagging, per §4.D.
func (c *Core) CreateMatch(l2Type, l3Type, greType, priority uint32) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index, err := c.matchAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeUdfMatch, index)

	m := &Match{OID: newOID, L2Type: l2Type, L3Type: l3Type, GREType: greType, Priority: priority}
	handle, err := c.npu.CreateMatch(m)
	if err != nil {
		return oid.Null, err
	}
	m.NPUHandle = handle

	c.matches[newOID] = m
	return newOID, nil
}

// DeleteMatch removes a UDF match.
func (c *Core) DeleteMatch(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.matches[o]
	if !ok {
		return status.New(status.ItemNotFound, "udf match %v not found", o)
	}
	delete(c.matches, o)
	if err := c.npu.DeleteMatch(m.NPUHandle); err != nil {
		c.matches[o] = m
		return err
	}
	return nil
}

// GetMatch reads the match's attributes back from the NPU layer.
func (c *Core) GetMatch(o oid.OID) (Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.matches[o]
	if !ok {
		return Match{}, status.New(status.ItemNotFound, "udf match %v not found", o)
	}
	got, err := c.npu.GetMatchAttribute(m.NPUHandle)
	if err != nil {
		return Match{}, err
	}
	got.OID = o
	return *got, nil
}

// SetMatchAttribute is unsupported — UdfMatch attributes are immutable after
// create (§4.D).
func (c *Core) SetMatchAttribute(oid.OID) error {
	return status.New(status.NotSupported, "udf match attributes cannot be set after create")
}
