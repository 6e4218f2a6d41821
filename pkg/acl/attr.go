package acl

import (
	"fmt"

	"github.com/newtron-network/aclcore/pkg/status"
)

// AttrID is a single flat attribute-tag namespace partitioned into ranges per
// §6.3: table, entry (rule), counter, range, table-group, table-group-member.
// UDF field tags are computed as an offset from a per-object UDF-field base,
// mirroring "field_tag − FIELD_USER_DEFINED_MIN indexes into
// TABLE_FIELD_USER_DEFINED_GROUP_MIN".
type AttrID int

const (
	tableBase   = 1000
	ruleBase    = 2000
	counterBase = 3000
	rangeBase   = 4000
	groupBase   = 5000
	memberBase  = 6000

	// maxUDFGroups bounds how many UDF field tags are reserved per object;
	// real SAI reserves a much larger span, this is enough for every test
	// and CLI use this core exercises.
	maxUDFGroups = 64
)

const (
	AttrInvalid AttrID = 0

	// Table scalar/list attributes.
	AttrTableStage AttrID = tableBase + iota
	AttrTablePriority
	AttrTableSize
	AttrTableGroupID
	AttrTableFieldSrcIP
	AttrTableFieldDstIP
	AttrTableFieldSrcIPv6
	AttrTableFieldDstIPv6
	AttrTableFieldInPort
	AttrTableFieldInPorts
	AttrTableFieldOutPort
	AttrTableFieldOutPorts
	AttrTableFieldDstPort
	AttrTableFieldL4SrcPort
	AttrTableFieldL4DstPort
	AttrTableUDFFieldMin // + [0, maxUDFGroups) reserved after this
)

// AttrTableUDFField returns the table-side UDF field tag for the i-th bound
// UDF group (§6.3).
func AttrTableUDFField(i int) AttrID { return AttrTableUDFFieldMin + AttrID(i) + 1 }

const (
	AttrRuleTableID AttrID = ruleBase + iota
	AttrRulePriority
	AttrRuleAdminState
	AttrRuleFieldSrcIP
	AttrRuleFieldDstIP
	AttrRuleFieldSrcIPv6
	AttrRuleFieldDstIPv6
	AttrRuleFieldInPort
	AttrRuleFieldInPorts
	AttrRuleFieldOutPort
	AttrRuleFieldOutPorts
	AttrRuleFieldDstPort
	AttrRuleFieldL4SrcPort
	AttrRuleFieldL4DstPort
	AttrRuleActionCounter
	AttrRuleActionSetPolicer
	AttrRuleActionSamplePacketIngress
	AttrRuleActionSamplePacketEgress
	AttrRuleActionPacketAction
	AttrRuleActionMirrorIngress
	AttrRuleActionMirrorEgress
	AttrRuleFieldUDFMin
)

// AttrRuleUDFField returns the rule-side UDF field tag for the i-th bound UDF
// group; it offsets into AttrTableUDFField(i) via the same index (§6.3).
func AttrRuleUDFField(i int) AttrID { return AttrRuleFieldUDFMin + AttrID(i) + 1 }

const (
	AttrCounterTableID AttrID = counterBase + iota
	AttrCounterEnablePacketCount
	AttrCounterEnableByteCount
	AttrCounterPackets
	AttrCounterBytes
)

const (
	AttrRangeType AttrID = rangeBase + iota
	AttrRangeMin
	AttrRangeMax
)

const (
	AttrTableGroupStage AttrID = groupBase + iota
	AttrTableGroupType
	AttrTableGroupBindPointList
)

const (
	AttrTableGroupMemberGroupID AttrID = memberBase + iota
	AttrTableGroupMemberTableID
	AttrTableGroupMemberPriority
)

// isRuleFieldTag reports whether id names a filter field on a rule (used to
// tell fields apart from actions and scalars during populate/delta).
func isRuleFieldTag(id AttrID) bool {
	switch {
	case id >= AttrRuleFieldSrcIP && id <= AttrRuleFieldL4DstPort:
		return true
	case id > AttrRuleFieldUDFMin && id <= AttrRuleFieldUDFMin+maxUDFGroups:
		return true
	}
	return false
}

// isRuleActionTag reports whether id names an action on a rule.
func isRuleActionTag(id AttrID) bool {
	return id >= AttrRuleActionCounter && id <= AttrRuleActionMirrorEgress
}

// isTableFieldTag reports whether id names a field-set entry on a table.
func isTableFieldTag(id AttrID) bool {
	switch {
	case id >= AttrTableFieldSrcIP && id <= AttrTableFieldL4DstPort:
		return true
	case id > AttrTableUDFFieldMin && id <= AttrTableUDFFieldMin+maxUDFGroups:
		return true
	}
	return false
}

// isTableUDFFieldTag reports whether id is a UDF field tag in the table
// namespace, and if so which index it names.
func isTableUDFFieldTag(id AttrID) (int, bool) {
	if id > AttrTableUDFFieldMin && id <= AttrTableUDFFieldMin+maxUDFGroups {
		return int(id - AttrTableUDFFieldMin - 1), true
	}
	return 0, false
}

// isRuleUDFFieldTag reports whether id is a UDF field tag in the rule
// namespace, and if so which index it names.
func isRuleUDFFieldTag(id AttrID) (int, bool) {
	if id > AttrRuleFieldUDFMin && id <= AttrRuleFieldUDFMin+maxUDFGroups {
		return int(id - AttrRuleFieldUDFMin - 1), true
	}
	return 0, false
}

// Attribute is one (tag, value) pair in a create/set attribute list. Mask is
// only meaningful for filter attributes that carry an explicit match_mask —
// UDF byte-list filters require one of equal length to Value; other filter
// kinds may leave it at its zero value.
type Attribute struct {
	ID    AttrID
	Value Value
	Mask  Value
}

// attrFlags mirror §4.C's per-(object_type, attribute_id) schema.
type attrFlags struct {
	mandatoryOnCreate bool
	validForCreate    bool
	validForSet       bool
	validForGet       bool
}

// Op names which validation pass to run per §4.C.
type Op int

const (
	OpCreate Op = iota
	OpSet
)

// schema is a static per-AttrID table of flags. Object types reuse the same
// attribute space disjointly (table attrs never collide with rule attrs), so
// one map serves all object kinds.
var schema = map[AttrID]attrFlags{
	AttrTableStage:    {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrTablePriority: {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrTableSize:     {validForCreate: true, validForGet: true},
	AttrTableGroupID:  {validForCreate: true, validForGet: true},

	AttrRuleTableID:    {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrRulePriority:   {mandatoryOnCreate: true, validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleAdminState: {validForCreate: true, validForSet: true, validForGet: true},

	AttrRuleActionCounter:             {validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleActionSetPolicer:          {validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleActionSamplePacketIngress: {validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleActionSamplePacketEgress:  {validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleActionPacketAction:        {validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleActionMirrorIngress:       {validForCreate: true, validForSet: true, validForGet: true},
	AttrRuleActionMirrorEgress:        {validForCreate: true, validForSet: true, validForGet: true},

	AttrCounterTableID:           {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrCounterEnablePacketCount: {validForCreate: true},
	AttrCounterEnableByteCount:   {validForCreate: true},
	AttrCounterPackets:           {validForSet: true, validForGet: true},
	AttrCounterBytes:             {validForSet: true, validForGet: true},

	AttrRangeType: {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrRangeMin:  {mandatoryOnCreate: true, validForCreate: true, validForSet: true, validForGet: true},
	AttrRangeMax:  {mandatoryOnCreate: true, validForCreate: true, validForSet: true, validForGet: true},

	AttrTableGroupStage:         {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrTableGroupType:          {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrTableGroupBindPointList: {validForCreate: true, validForGet: true},

	AttrTableGroupMemberGroupID: {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrTableGroupMemberTableID: {mandatoryOnCreate: true, validForCreate: true, validForGet: true},
	AttrTableGroupMemberPriority: {mandatoryOnCreate: true, validForCreate: true, validForSet: true, validForGet: true},
}

func flagsFor(id AttrID, fields, actions func(AttrID) bool) (attrFlags, bool) {
	if f, ok := schema[id]; ok {
		return f, true
	}
	if fields(id) {
		return attrFlags{validForCreate: true, validForSet: true, validForGet: true}, true
	}
	if actions != nil && actions(id) {
		return attrFlags{validForCreate: true, validForSet: true, validForGet: true}, true
	}
	return attrFlags{}, false
}

// ValidateList runs the §4.C pass over a create/set attribute list: unknown
// IDs, duplicates, missing mandatories (create only), and create-only IDs
// used on set. fields/actions classify IDs outside the static schema table
// (rule filter fields, table field-set entries, UDF field tags).
func ValidateList(op Op, attrs []Attribute, fields func(AttrID) bool, actions func(AttrID) bool) error {
	seen := make(map[AttrID]int, len(attrs))
	mandatorySeen := make(map[AttrID]bool)

	for i, a := range attrs {
		flags, ok := flagsFor(a.ID, fields, actions)
		if !ok {
			return status.New(status.Indexed(status.UnknownAttributeBase, i), "attribute %d is unknown", a.ID)
		}
		if prev, dup := seen[a.ID]; dup {
			return status.New(status.Indexed(status.InvalidAttributeBase, i), "attribute %d duplicates index %d", a.ID, prev)
		}
		seen[a.ID] = i

		switch op {
		case OpCreate:
			if !flags.validForCreate {
				return status.New(status.Indexed(status.AttrNotSupportedBase, i), "attribute %d is not valid for create", a.ID)
			}
			if flags.mandatoryOnCreate {
				mandatorySeen[a.ID] = true
			}
		case OpSet:
			if !flags.validForSet {
				return status.New(status.Indexed(status.AttrNotSupportedBase, i), "attribute %d is create-only", a.ID)
			}
		}
	}

	if op == OpCreate {
		for id, flags := range schema {
			if flags.mandatoryOnCreate && !mandatorySeen[id] {
				// Only enforced for IDs that are actually mandatory AND
				// relevant — callers pass a closed attribute list per
				// object type, so a mandatory ID from a different object's
				// namespace never appears here; still, guard defensively.
				if classRelevant(id, attrs) {
					return status.New(status.MandatoryAttributeMissing, "attribute %d is mandatory", id)
				}
			}
		}
	}
	return nil
}

// classRelevant reports whether id shares a namespace base with any
// attribute actually present in attrs, so a missing-mandatory check for one
// object type never fires against a list built for a different object type.
func classRelevant(id AttrID, attrs []Attribute) bool {
	base := (int(id) / 1000) * 1000
	for _, a := range attrs {
		if (int(a.ID)/1000)*1000 == base {
			return true
		}
	}
	return false
}

// String renders an AttrID for logs and dumps.
func (id AttrID) String() string {
	return fmt.Sprintf("attr(%d)", int(id))
}
