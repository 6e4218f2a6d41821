package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// SetRule implements the delta-engine protocol of §4.F.2. The caller
// supplies exactly one attribute — PRIORITY, ADMIN_STATE, a field, or an
// action.
func (c *Core) SetRule(ruleOID oid.OID, attr Attribute) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpSet, []Attribute{attr}, isRuleFieldTag, isRuleActionTag); err != nil {
		return err
	}

	existing, ok := c.rules[ruleOID]
	if !ok {
		return status.New(status.ItemNotFound, "acl rule %v not found", ruleOID)
	}
	table, ok := c.tables[existing.TableOID]
	if !ok {
		return status.New(status.Failure, "acl rule %v references missing table %v", ruleOID, existing.TableOID)
	}

	candidate, err := c.populateRule([]Attribute{attr}, table, existing)
	if err != nil {
		return err
	}

	if !candidate.CounterOID.IsNull() && candidate.CounterOID != existing.CounterOID {
		cnt, ok := c.counters[candidate.CounterOID]
		if !ok {
			return status.New(status.InvalidObjectID, "acl counter %v not found", candidate.CounterOID)
		}
		if cnt.TableOID != existing.TableOID {
			return status.New(status.InvalidAttrValueBase, "counter %v belongs to a different table", candidate.CounterOID)
		}
	}

	// Pre-validate sample updates: rebind before the NPU push so the whole
	// set aborts, with nothing committed, if the new binding fails (§4.F.2
	// step 4, §7 atomicity).
	sampleStage, sampleChanged := detectSampleChange(attr, existing, candidate)
	if sampleChanged {
		oldPorts := inPortsOf(existing)
		if err := c.npu.RemoveSamplePacket(existing.NPUHandle, sampleStage); err != nil {
			return err
		}
		newSample := candidate.SampleOID[sampleStage]
		newPorts := inPortsOf(existing)
		if attr.ID == AttrRuleFieldInPort || attr.ID == AttrRuleFieldInPorts {
			newPorts = inPortsOf(candidate)
		}
		var bindErr error
		if !newSample.IsNull() {
			bindErr = c.npu.CreateSamplePacket(existing.NPUHandle, sampleStage, newSample, newPorts)
		}
		if bindErr != nil {
			if !existing.SampleOID[sampleStage].IsNull() {
				_ = c.npu.CreateSamplePacket(existing.NPUHandle, sampleStage, existing.SampleOID[sampleStage], oldPorts)
			}
			return bindErr
		}
	}

	compare := copyRule(existing)
	if err := c.npu.SetRule(table.NPUHandle, candidate, compare, existing); err != nil {
		if sampleChanged {
			oldPorts := inPortsOf(existing)
			_ = c.npu.RemoveSamplePacket(existing.NPUHandle, sampleStage)
			if !existing.SampleOID[sampleStage].IsNull() {
				_ = c.npu.CreateSamplePacket(existing.NPUHandle, sampleStage, existing.SampleOID[sampleStage], oldPorts)
			}
		}
		return err
	}

	c.commitRuleDelta(table, existing, attr, candidate)

	if !candidate.PolicerOID.IsNull() && candidate.PolicerOID != existing.PolicerOID {
		if err := c.npu.AttachPolicerToRule(existing.NPUHandle, candidate.PolicerOID); err == nil {
			_ = c.npu.DetachPolicerFromRule(existing.NPUHandle, existing.PolicerOID)
		}
	}

	if sampleChanged {
		existing.SampleOID[sampleStage] = candidate.SampleOID[sampleStage]
	}
	return nil
}

// detectSampleChange reports whether attr changes the sample binding for a
// direction: either the SAMPLE_PACKET action itself, or the rule's port
// filter set while a sample OID is already live in that direction (§4.H).
func detectSampleChange(attr Attribute, existing, candidate *AclRule) (Stage, bool) {
	switch attr.ID {
	case AttrRuleActionSamplePacketIngress:
		return StageIngress, candidate.SampleOID[StageIngress] != existing.SampleOID[StageIngress]
	case AttrRuleActionSamplePacketEgress:
		return StageEgress, candidate.SampleOID[StageEgress] != existing.SampleOID[StageEgress]
	case AttrRuleFieldInPort, AttrRuleFieldInPorts:
		if !existing.SampleOID[StageIngress].IsNull() {
			return StageIngress, true
		}
	}
	return StageIngress, false
}

// copyRule returns a value copy of r suitable as the NPU "compare-copy"
// fallback (§4.F.2 step 6) — deep enough that mutating the original's slices
// afterward cannot retroactively change what was pushed.
func copyRule(r *AclRule) *AclRule {
	cp := *r
	cp.FilterList = append([]AclFilter(nil), r.FilterList...)
	cp.ActionList = append([]AclAction(nil), r.ActionList...)
	return &cp
}

// commitRuleDelta applies the single changed attribute to existing now that
// the NPU has accepted it (§4.F.2 step 7). Equal-valued sets are a no-op
// beyond this point (testable property 4).
func (c *Core) commitRuleDelta(table *AclTable, existing *AclRule, attr Attribute, candidate *AclRule) {
	switch {
	case attr.ID == AttrRulePriority:
		if candidate.Priority == existing.Priority {
			return
		}
		removeFromRuleList(table, existing.OID)
		existing.Priority = candidate.Priority
		insertSorted(table, existing.OID, existing.Priority, c.rules)

	case attr.ID == AttrRuleAdminState:
		existing.AdminState = candidate.AdminState

	case isRuleFieldTag(attr.ID):
		if len(candidate.FilterList) == 0 {
			return
		}
		cf := candidate.FilterList[0]
		for i := range existing.FilterList {
			if existing.FilterList[i].FieldTag == cf.FieldTag {
				applyFilterReplace(&existing.FilterList[i], cf)
				return
			}
		}
		existing.FilterList = append(existing.FilterList, cf)

	case isRuleActionTag(attr.ID):
		if len(candidate.ActionList) == 0 {
			return
		}
		ca := candidate.ActionList[0]
		found := false
		for i := range existing.ActionList {
			if existing.ActionList[i].ActionTag == ca.ActionTag {
				existing.ActionList[i] = ca
				found = true
				break
			}
		}
		if !found {
			existing.ActionList = append(existing.ActionList, ca)
		}

		switch attr.ID {
		case AttrRuleActionCounter:
			c.commitCounterChange(existing, candidate.CounterOID)
		}
	}
}

// applyFilterReplace realizes the object-list/byte-list update table of
// §4.F.4. In a garbage-collected implementation "free old" is automatic on
// reassignment; what remains observable is whether disabling clears the
// match data.
func applyFilterReplace(existing *AclFilter, candidate AclFilter) {
	existing.Enable = candidate.Enable
	if !candidate.Enable {
		existing.MatchData = Value{}
		existing.MatchMask = Value{}
		return
	}
	existing.MatchData = candidate.MatchData
	existing.MatchMask = candidate.MatchMask
	existing.UDFGroupOID = candidate.UDFGroupOID
	existing.UDFGroupHWID = candidate.UDFGroupHWID
}

// commitCounterChange drives the counter detach/attach protocol when a
// rule's COUNTER action changes (§4.F.2 step 7).
func (c *Core) commitCounterChange(existing *AclRule, newCounter oid.OID) {
	if newCounter == existing.CounterOID {
		return
	}
	if !existing.CounterOID.IsNull() {
		if cnt, ok := c.counters[existing.CounterOID]; ok {
			_ = c.npu.DetachCounterFromRule(existing.NPUHandle, cnt.NPUHandle)
			cnt.SharedCount--
		}
	}
	if !newCounter.IsNull() {
		if cnt, ok := c.counters[newCounter]; ok {
			_ = c.npu.AttachCounterToRule(existing.NPUHandle, cnt.NPUHandle)
			cnt.SharedCount++
		}
	}
	existing.CounterOID = newCounter
}
