package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// CreateCounter negotiates the counter type from the packet/byte enable
// flags and materializes the owning table if it hasn't been yet (§4.G).
func (c *Core) CreateCounter(attrs []Attribute) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpCreate, attrs, func(AttrID) bool { return false }, nil); err != nil {
		return oid.Null, err
	}

	var (
		tableOID          oid.OID
		havTable          bool
		packetEnable      bool
		havPacketEnable   bool
		byteEnable        bool
		havByteEnable     bool
	)
	for _, a := range attrs {
		switch a.ID {
		case AttrCounterTableID:
			tableOID = a.Value.OID
			havTable = true
		case AttrCounterEnablePacketCount:
			packetEnable = a.Value.Bool
			havPacketEnable = true
		case AttrCounterEnableByteCount:
			byteEnable = a.Value.Bool
			havByteEnable = true
		case AttrCounterPackets, AttrCounterBytes:
			return oid.Null, status.New(status.AttrNotSupportedBase, "count values cannot be set on counter create")
		}
	}
	if !havTable {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "table id is mandatory")
	}
	table, ok := c.tables[tableOID]
	if !ok {
		return oid.Null, status.New(status.InvalidObjectID, "acl table %v not found", tableOID)
	}

	typ := CounterBytes
	switch {
	case packetEnable && byteEnable:
		typ = CounterBytesPackets
	case packetEnable && !byteEnable:
		typ = CounterPackets
	case havByteEnable && !byteEnable && !havPacketEnable:
		return oid.Null, status.New(status.InvalidAttrValueBase, "byte count explicitly disabled with no packet count enabled")
	default:
		typ = CounterBytes
	}

	if err := c.materializeIfNeeded(table); err != nil {
		return oid.Null, err
	}

	index, err := c.counterAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeAclCounter, index)

	handle, err := c.npu.CreateCounter(table.NPUHandle, typ)
	if err != nil {
		return oid.Null, err
	}

	cnt := &AclCounter{OID: newOID, TableOID: tableOID, Type: typ, NPUHandle: handle}
	c.counters[newOID] = cnt
	table.CounterCount++
	return newOID, nil
}

// DeleteCounter rejects a counter still referenced by a rule (§4.G).
func (c *Core) DeleteCounter(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cnt, ok := c.counters[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl counter %v not found", o)
	}
	if cnt.SharedCount > 0 {
		return status.New(status.ObjectInUse, "acl counter %v is referenced by %d rules", o, cnt.SharedCount)
	}

	delete(c.counters, o)
	if err := c.npu.DeleteCounter(cnt.NPUHandle); err != nil {
		c.counters[o] = cnt
		return err
	}
	if table, ok := c.tables[cnt.TableOID]; ok {
		table.CounterCount--
	}
	return nil
}

// GetCounter fetches count values matching the counter's negotiated type;
// requesting a count attribute of the wrong kind is INVALID_ATTRIBUTE (§4.G).
func (c *Core) GetCounter(o oid.OID, attrID AttrID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cnt, ok := c.counters[o]
	if !ok {
		return 0, status.New(status.ItemNotFound, "acl counter %v not found", o)
	}

	wantPackets := attrID == AttrCounterPackets
	wantBytes := attrID == AttrCounterBytes
	if !wantPackets && !wantBytes {
		return 0, status.New(status.InvalidAttributeBase, "attribute %v is not a counter value", attrID)
	}
	if wantPackets && cnt.Type == CounterBytes {
		return 0, status.New(status.InvalidAttributeBase, "counter %v does not track packets", o)
	}
	if wantBytes && cnt.Type == CounterPackets {
		return 0, status.New(status.InvalidAttributeBase, "counter %v does not track bytes", o)
	}

	wantCount := 1
	if cnt.Type == CounterBytesPackets {
		wantCount = 2
	}
	vals, err := c.npu.GetCounter(cnt.NPUHandle, wantCount)
	if err != nil {
		return 0, err
	}

	switch cnt.Type {
	case CounterBytesPackets:
		if wantBytes {
			return vals[0], nil
		}
		return vals[1], nil
	default:
		return vals[0], nil
	}
}

// SetCounter pushes a single count value of the correct kind to the NPU.
func (c *Core) SetCounter(o oid.OID, attrID AttrID, value uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cnt, ok := c.counters[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl counter %v not found", o)
	}
	if attrID != AttrCounterPackets && attrID != AttrCounterBytes {
		return status.New(status.InvalidAttributeBase, "attribute %v is not a counter value", attrID)
	}
	return c.npu.SetCounter(cnt.NPUHandle, cnt.Type, []uint64{value})
}
