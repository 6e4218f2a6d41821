package acl

import (
	"sort"

	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
	"github.com/newtron-network/aclcore/pkg/util"
)

// populateRule builds filters/actions from an attribute list, applying the
// normalizations of §4.F.1 step 4. base, if non-nil, supplies defaults for
// fields the attribute list leaves untouched (used by the delta engine to
// build a candidate that inherits from the existing rule).
func (c *Core) populateRule(attrs []Attribute, table *AclTable, base *AclRule) (*AclRule, error) {
	r := &AclRule{AdminState: true, TableOID: table.OID}
	if base != nil {
		r.Priority = base.Priority
		r.AdminState = base.AdminState
		r.CounterOID = base.CounterOID
		r.PolicerOID = base.PolicerOID
		r.SampleOID = base.SampleOID
	}

	havAdminState := false
	for _, a := range attrs {
		switch {
		case a.ID == AttrRuleTableID:
			// already resolved by the caller; ignore here.
		case a.ID == AttrRulePriority:
			r.Priority = a.Value.U32
		case a.ID == AttrRuleAdminState:
			r.AdminState = a.Value.Bool
			havAdminState = true
		case isRuleFieldTag(a.ID):
			f, err := c.populateFilter(a, table)
			if err != nil {
				return nil, err
			}
			r.FilterList = append(r.FilterList, f)
		case isRuleActionTag(a.ID):
			act, err := c.populateAction(a, r)
			if err != nil {
				return nil, err
			}
			r.ActionList = append(r.ActionList, act)
		}
	}
	if !havAdminState {
		r.AdminState = true
	}
	return r, nil
}

// populateFilter realizes one filter entry, applying the OUT_PORT->DST_PORT
// rewrite and UDF-field binding lookups (§4.F.1 step 4).
func (c *Core) populateFilter(a Attribute, table *AclTable) (AclFilter, error) {
	tag := a.ID
	if tag == AttrRuleFieldOutPort && table.Stage == StageIngress {
		tag = AttrRuleFieldDstPort
	}

	f := AclFilter{
		FieldTag:  tag,
		Enable:    true,
		MatchData: a.Value.DeepCopy(),
		MatchMask: a.Mask.DeepCopy(),
	}

	// The field-set check uses the tag the caller supplied, so an OUT_PORT
	// filter is admitted by a table whose field set names OUT_PORT even
	// though it is stored as DST_PORT.
	tableTag, ok := tableFieldForRuleField(a.ID)
	if !ok || !containsTag(table.FieldSet, tableTag) {
		return AclFilter{}, status.New(status.InvalidAttrValueBase, "filter tag %v is not in the table's field set", tag)
	}

	if idx, isUDF := isRuleUDFFieldTag(tag); isUDF {
		var binding *UDFFieldBinding
		for i := range table.UDFFieldSet {
			if table.UDFFieldSet[i].FieldTag == AttrTableUDFField(idx) {
				binding = &table.UDFFieldSet[i]
				break
			}
		}
		if binding == nil {
			return AclFilter{}, status.New(status.InvalidAttrValueBase, "udf filter tag %v is not bound on the table", tag)
		}
		f.UDFGroupOID = binding.UDFGroupOID
		f.UDFGroupHWID = binding.UDFGroupHWID
		if f.MatchMask.Kind != KindBytes || len(f.MatchMask.Bytes) != len(f.MatchData.Bytes) {
			return AclFilter{}, status.New(status.InvalidAttrValueBase, "udf filter requires equal-length data and mask byte lists")
		}
	}
	return f, nil
}

func containsTag(set []AttrID, tag AttrID) bool {
	for _, t := range set {
		if t == tag {
			return true
		}
	}
	return false
}

// populateAction realizes one action entry, enforcing the NULL-OID-while-
// enabled rule, the SET_POLICER mode gate, and sample-OID direction
// recording (§4.F.1 step 4).
func (c *Core) populateAction(a Attribute, r *AclRule) (AclAction, error) {
	enable := true
	if a.Value.Kind == KindBool {
		enable = a.Value.Bool
	}
	act := AclAction{ActionTag: a.ID, Enable: enable, Parameter: a.Value.DeepCopy()}

	needsOID := a.Value.Kind == KindOID
	if enable && needsOID && a.Value.OID.IsNull() {
		return AclAction{}, status.New(status.InvalidAttrValueBase, "action %v is enabled with a null object id", a.ID)
	}

	switch a.ID {
	case AttrRuleActionCounter:
		if enable {
			r.CounterOID = a.Value.OID
		} else {
			r.CounterOID = oid.Null
		}
	case AttrRuleActionSetPolicer:
		if enable {
			mode, ok := c.npu.PolicerMode(a.Value.OID)
			if !ok || (mode != PolicerModeSrTCM && mode != PolicerModeTrTCM) {
				return AclAction{}, status.New(status.InvalidAttrValueBase, "policer mode is not Sr_TCM or Tr_TCM")
			}
			r.PolicerOID = a.Value.OID
		} else {
			r.PolicerOID = oid.Null
		}
	case AttrRuleActionSamplePacketIngress:
		if enable {
			r.SampleOID[StageIngress] = a.Value.OID
		} else {
			r.SampleOID[StageIngress] = oid.Null
		}
	case AttrRuleActionSamplePacketEgress:
		if enable {
			r.SampleOID[StageEgress] = a.Value.OID
		} else {
			r.SampleOID[StageEgress] = oid.Null
		}
	}
	return act, nil
}

// CreateRule implements the ten-step protocol of §4.F.1.
func (c *Core) CreateRule(attrs []Attribute) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpCreate, attrs, isRuleFieldTag, isRuleActionTag); err != nil {
		return oid.Null, err
	}

	var tableOID oid.OID
	fieldCount := 0
	for _, a := range attrs {
		if a.ID == AttrRuleTableID {
			tableOID = a.Value.OID
		}
		if isRuleFieldTag(a.ID) {
			fieldCount++
		}
	}
	if fieldCount == 0 {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "at least one field is mandatory")
	}

	table, ok := c.tables[tableOID]
	if !ok {
		return oid.Null, status.New(status.InvalidObjectID, "acl table %v not found", tableOID)
	}

	r, err := c.populateRule(attrs, table, nil)
	if err != nil {
		return oid.Null, err
	}

	if !r.CounterOID.IsNull() {
		cnt, ok := c.counters[r.CounterOID]
		if !ok {
			return oid.Null, status.New(status.InvalidObjectID, "acl counter %v not found", r.CounterOID)
		}
		if cnt.TableOID != tableOID {
			return oid.Null, status.New(status.InvalidAttrValueBase, "counter %v belongs to a different table", r.CounterOID)
		}
	}

	index, err := c.ruleAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	r.OID = oid.New(oid.TypeAclEntry, index)

	// The table stays materialized once realized — rollback never tears it
	// down (§4.F.1 step 10).
	if err := c.materializeIfNeeded(table); err != nil {
		return oid.Null, err
	}

	handle, err := c.npu.CreateRule(table.NPUHandle, r)
	if err != nil {
		return oid.Null, err
	}
	r.NPUHandle = handle

	var sampleBound, counterAttached, policerAttached bool
	rollback := func() {
		if policerAttached {
			_ = c.npu.DetachPolicerFromRule(r.NPUHandle, r.PolicerOID)
		}
		if counterAttached {
			_ = c.npu.DetachCounterFromRule(r.NPUHandle, r.CounterOID)
			if cnt, ok := c.counters[r.CounterOID]; ok {
				cnt.SharedCount--
			}
		}
		if sampleBound {
			if !r.SampleOID[StageIngress].IsNull() {
				_ = c.npu.RemoveSamplePacket(r.NPUHandle, StageIngress)
			}
			if !r.SampleOID[StageEgress].IsNull() {
				_ = c.npu.RemoveSamplePacket(r.NPUHandle, StageEgress)
			}
		}
		_ = c.npu.DeleteRule(r.NPUHandle)
	}

	for _, stage := range []Stage{StageIngress, StageEgress} {
		if r.SampleOID[stage].IsNull() {
			continue
		}
		ports := inPortsOf(r)
		if err := c.npu.CreateSamplePacket(r.NPUHandle, stage, r.SampleOID[stage], ports); err != nil {
			rollback()
			return oid.Null, err
		}
		sampleBound = true
	}

	if !r.CounterOID.IsNull() {
		if err := c.npu.AttachCounterToRule(r.NPUHandle, c.counters[r.CounterOID].NPUHandle); err != nil {
			rollback()
			return oid.Null, err
		}
		c.counters[r.CounterOID].SharedCount++
		counterAttached = true
	}

	if !r.PolicerOID.IsNull() {
		if err := c.npu.AttachPolicerToRule(r.NPUHandle, r.PolicerOID); err != nil {
			rollback()
			return oid.Null, err
		}
		policerAttached = true
	}

	c.rules[r.OID] = r
	insertSorted(table, r.OID, r.Priority, c.rules)
	table.RuleCount++

	util.WithSubsystem("acl").WithField("oid", r.OID).Debug("acl rule created")
	return r.OID, nil
}

// inPortsOf returns the rule's IN_PORTS/IN_PORT filter's port set, or nil for
// an "all ports" sample binding (§4.H).
func inPortsOf(r *AclRule) []oid.OID {
	for _, f := range r.FilterList {
		switch f.FieldTag {
		case AttrRuleFieldInPorts:
			return f.MatchData.OIDList
		case AttrRuleFieldInPort:
			if f.MatchData.Kind == KindOID && !f.MatchData.OID.IsNull() {
				return []oid.OID{f.MatchData.OID}
			}
		}
	}
	return nil
}

// insertSorted inserts ruleOID into table.RuleList keeping it non-decreasing
// by priority, ties broken by insertion order (stable), per §9.
func insertSorted(table *AclTable, ruleOID oid.OID, priority uint32, rules map[oid.OID]*AclRule) {
	i := sort.Search(len(table.RuleList), func(i int) bool {
		return rules[table.RuleList[i]].Priority > priority
	})
	table.RuleList = append(table.RuleList, oid.Null)
	copy(table.RuleList[i+1:], table.RuleList[i:])
	table.RuleList[i] = ruleOID
}

// removeFromRuleList deletes ruleOID from table.RuleList.
func removeFromRuleList(table *AclTable, ruleOID oid.OID) {
	for i, o := range table.RuleList {
		if o == ruleOID {
			table.RuleList = append(table.RuleList[:i], table.RuleList[i+1:]...)
			return
		}
	}
}

// DeleteRule implements the unwind-in-reverse protocol of §4.F.3.
func (c *Core) DeleteRule(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rules[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl rule %v not found", o)
	}
	table, ok := c.tables[r.TableOID]
	if !ok {
		return status.New(status.Failure, "acl rule %v references missing table %v", o, r.TableOID)
	}
	if !containsOID(table.RuleList, o) {
		return status.New(status.Failure, "acl rule %v is not present in its table's rule list", o)
	}

	var sampleRemoved [2]bool
	for _, stage := range []Stage{StageIngress, StageEgress} {
		if !r.SampleOID[stage].IsNull() {
			if err := c.npu.RemoveSamplePacket(r.NPUHandle, stage); err != nil {
				return err
			}
			sampleRemoved[stage] = true
		}
	}

	restoreSample := func() {
		for _, stage := range []Stage{StageIngress, StageEgress} {
			if sampleRemoved[stage] {
				_ = c.npu.CreateSamplePacket(r.NPUHandle, stage, r.SampleOID[stage], inPortsOf(r))
			}
		}
	}

	counterDetached := false
	if !r.CounterOID.IsNull() {
		if err := c.npu.DetachCounterFromRule(r.NPUHandle, c.counters[r.CounterOID].NPUHandle); err != nil {
			restoreSample()
			return err
		}
		c.counters[r.CounterOID].SharedCount--
		counterDetached = true
	}

	restoreCounter := func() {
		if counterDetached {
			_ = c.npu.AttachCounterToRule(r.NPUHandle, c.counters[r.CounterOID].NPUHandle)
			c.counters[r.CounterOID].SharedCount++
		}
	}

	policerDetached := false
	if !r.PolicerOID.IsNull() {
		if err := c.npu.DetachPolicerFromRule(r.NPUHandle, r.PolicerOID); err != nil {
			restoreCounter()
			restoreSample()
			return err
		}
		policerDetached = true
	}

	if err := c.npu.DeleteRule(r.NPUHandle); err != nil {
		if policerDetached {
			_ = c.npu.AttachPolicerToRule(r.NPUHandle, r.PolicerOID)
		}
		restoreCounter()
		restoreSample()
		return err
	}

	delete(c.rules, o)
	removeFromRuleList(table, o)
	table.RuleCount--
	return nil
}

func containsOID(list []oid.OID, o oid.OID) bool {
	for _, v := range list {
		if v == o {
			return true
		}
	}
	return false
}

// GetRule returns a read-only copy of the rule's software state.
func (c *Core) GetRule(o oid.OID) (AclRule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rules[o]
	if !ok {
		return AclRule{}, status.New(status.ItemNotFound, "acl rule %v not found", o)
	}
	cp := *r
	cp.FilterList = append([]AclFilter(nil), r.FilterList...)
	cp.ActionList = append([]AclAction(nil), r.ActionList...)
	return cp, nil
}
