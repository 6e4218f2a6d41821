package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
	"github.com/newtron-network/aclcore/pkg/udf"
	"github.com/newtron-network/aclcore/pkg/util"
)

// tableFieldForRuleField returns the table-namespace scalar field tag matching a
// rule-namespace field tag, by translating the shared offset from their
// respective FieldSrcIP anchors. UDF field tags translate through their
// shared index instead.
func tableFieldForRuleField(id AttrID) (AttrID, bool) {
	if id >= AttrRuleFieldSrcIP && id <= AttrRuleFieldL4DstPort {
		return AttrTableFieldSrcIP + (id - AttrRuleFieldSrcIP), true
	}
	if idx, ok := isRuleUDFFieldTag(id); ok {
		return AttrTableUDFField(idx), true
	}
	return AttrInvalid, false
}

// CreateTable implements the two-phase protocol of §4.E.
func (c *Core) CreateTable(attrs []Attribute) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpCreate, attrs, isTableFieldTag, nil); err != nil {
		return oid.Null, err
	}

	var (
		stage        Stage
		havStage     bool
		priority     uint32
		havPriority  bool
		size         uint32
		groupOID     oid.OID
		fieldSet     []AttrID
		udfBindings  []UDFFieldBinding
	)

	for _, a := range attrs {
		switch {
		case a.ID == AttrTableStage:
			stage = Stage(a.Value.U32)
			havStage = true
		case a.ID == AttrTablePriority:
			priority = a.Value.U32
			havPriority = true
		case a.ID == AttrTableSize:
			size = a.Value.U32
		case a.ID == AttrTableGroupID:
			groupOID = a.Value.OID
		case isTableFieldTag(a.ID):
			if idx, ok := isTableUDFFieldTag(a.ID); ok {
				gt, ok := c.udf.GroupType(a.Value.OID)
				if !ok {
					return oid.Null, status.New(status.InvalidObjectID, "udf group %v not found", a.Value.OID)
				}
				if gt != udf.GroupGeneric {
					return oid.Null, status.New(status.InvalidAttrValueBase, "udf-field table attributes require a GENERIC udf group")
				}
				hwID, _ := c.udf.GroupHWID(a.Value.OID)
				udfBindings = append(udfBindings, UDFFieldBinding{FieldTag: AttrTableUDFField(idx), UDFGroupOID: a.Value.OID, UDFGroupHWID: hwID})
			}
			fieldSet = append(fieldSet, a.ID)
		}
	}
	if !havStage {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "stage is mandatory")
	}
	if !havPriority {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "priority is mandatory")
	}

	for _, t := range c.tables {
		if t.Priority == priority && t.Stage == stage {
			return oid.Null, status.New(status.InvalidAttrValueBase, "table with priority %d stage %v already exists", priority, stage)
		}
	}
	if !groupOID.IsNull() {
		if !groupOID.IsType(oid.TypeAclTableGroup) {
			return oid.Null, status.New(status.InvalidObjectType, "group oid is not an acl table group")
		}
		g, ok := c.groups[groupOID]
		if !ok {
			return oid.Null, status.New(status.InvalidObjectID, "acl table group %v not found", groupOID)
		}
		if g.Stage != stage {
			return oid.Null, status.New(status.InvalidAttrValueBase, "group stage does not match table stage")
		}
	}

	for _, tag := range fieldSet {
		if err := c.npu.ValidateTableField(stage, tag); err != nil {
			return oid.Null, err
		}
	}

	index, err := c.tableAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeAclTable, index)

	t := &AclTable{
		OID:          newOID,
		Stage:        stage,
		Priority:     priority,
		Size:         size,
		GroupOID:     groupOID,
		FieldSet:     fieldSet,
		UDFFieldSet:  udfBindings,
		VirtualGroup: !groupOID.IsNull(),
	}

	if size != 0 || !groupOID.IsNull() {
		handle, err := c.npu.CreateTable(t)
		if err != nil {
			return oid.Null, err
		}
		t.NPUHandle = handle
		t.Materialized = true
	}

	c.tables[newOID] = t
	util.WithObject(newOID).Debug("acl table created")
	return newOID, nil
}

// materializeIfNeeded realizes a still-deferred table in hardware, called
// from rule/counter create when the table has no NPU handle yet (§4.E, §4.F.1
// step 7a).
func (c *Core) materializeIfNeeded(t *AclTable) error {
	if t.Materialized {
		return nil
	}
	handle, err := c.npu.CreateTable(t)
	if err != nil {
		return err
	}
	t.NPUHandle = handle
	t.Materialized = true
	return nil
}

// DeleteTable rejects a table that still has rules or counters (§4.E).
func (c *Core) DeleteTable(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tables[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl table %v not found", o)
	}
	if t.RuleCount > 0 {
		return status.New(status.ObjectInUse, "acl table %v still has %d rules", o, t.RuleCount)
	}
	if t.CounterCount > 0 {
		return status.New(status.ObjectInUse, "acl table %v still has %d counters", o, t.CounterCount)
	}

	delete(c.tables, o)
	if t.Materialized {
		if err := c.npu.DeleteTable(t.NPUHandle); err != nil {
			c.tables[o] = t
			return err
		}
	}
	return nil
}

// GetTable returns a read-only copy of the table's software state.
func (c *Core) GetTable(o oid.OID) (AclTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tables[o]
	if !ok {
		return AclTable{}, status.New(status.ItemNotFound, "acl table %v not found", o)
	}
	cp := *t
	cp.FieldSet = append([]AttrID(nil), t.FieldSet...)
	cp.UDFFieldSet = append([]UDFFieldBinding(nil), t.UDFFieldSet...)
	cp.RuleList = append([]oid.OID(nil), t.RuleList...)
	return cp, nil
}

// SetTable is not supported (§4.E).
func (c *Core) SetTable(oid.OID, Attribute) error {
	return status.New(status.NotSupported, "acl tables do not support set")
}
