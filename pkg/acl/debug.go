package acl

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// fieldNames lists the scalar qualifier field names in the same order as the
// AttrTableField*/AttrRuleField* const blocks, so a single slice serves both
// namespaces via scalarFieldName. Mirrors sai_acl_translate_field_to_string
// and sai_acl_translate_rule_attr_to_string (src/acl/sai_acl_debug.c).
var fieldNames = []string{
	"Source IPv4 Address",
	"Destination IPv4 Address",
	"Source IPv6 Address",
	"Destination IPv6 Address",
	"In Port",
	"In Ports",
	"Out Port",
	"Out Ports",
	"Destination Port",
	"L4 Source Port",
	"L4 Destination Port",
}

// actionNames names the rule action tags for dump output.
var actionNames = map[AttrID]string{
	AttrRuleActionCounter:             "Counter",
	AttrRuleActionSetPolicer:          "Set Policer",
	AttrRuleActionSamplePacketIngress: "Sample Packet Ingress",
	AttrRuleActionSamplePacketEgress:  "Sample Packet Egress",
	AttrRuleActionPacketAction:        "Packet Action",
	AttrRuleActionMirrorIngress:       "Mirror Ingress",
	AttrRuleActionMirrorEgress:        "Mirror Egress",
}

func scalarFieldName(id, anchor AttrID) (string, bool) {
	if id < anchor {
		return "", false
	}
	off := int(id - anchor)
	if off >= len(fieldNames) {
		return "", false
	}
	return fieldNames[off], true
}

// fieldName translates a table- or rule-namespace field tag into the human
// string used in dump output, falling back to AttrID.String() for anything
// not in the translation table (sai_acl_translate_field_to_string).
func fieldName(id AttrID) string {
	if idx, ok := isTableUDFFieldTag(id); ok {
		return fmt.Sprintf("UDF Field %d", idx)
	}
	if idx, ok := isRuleUDFFieldTag(id); ok {
		return fmt.Sprintf("UDF Field %d", idx)
	}
	if name, ok := scalarFieldName(id, AttrTableFieldSrcIP); ok {
		return name
	}
	if name, ok := scalarFieldName(id, AttrRuleFieldSrcIP); ok {
		return name
	}
	return id.String()
}

// actionName translates a rule action tag, falling back to AttrID.String().
func actionName(id AttrID) string {
	if name, ok := actionNames[id]; ok {
		return name
	}
	return id.String()
}

// formatValue renders a filter/action Value for dump output, per the
// per-kind formatting sai_acl_dump_rule_qual applies (MAC/IPv6 get their own
// helpers, object lists are joined, everything else prints as a scalar).
func formatValue(v Value) string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindU8, KindU16, KindU32:
		return fmt.Sprintf("%d", v.U32)
	case KindS32:
		return fmt.Sprintf("%d", v.S32)
	case KindMAC:
		return net.HardwareAddr(v.MAC[:]).String()
	case KindIPv4:
		return net.IP(v.IPv4[:]).String()
	case KindIPv6:
		return net.IP(v.IPv6[:]).String()
	case KindOID:
		return v.OID.String()
	case KindOIDList:
		parts := make([]string, len(v.OIDList))
		for i, o := range v.OIDList {
			parts[i] = o.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindBytes:
		return fmt.Sprintf("% x", v.Bytes)
	default:
		return "<unknown>"
	}
}

// dumpFilter renders one filter_list entry as "name: data/mask (disabled)".
func dumpFilter(f AclFilter) string {
	s := fmt.Sprintf("    %s: %s/%s", fieldName(f.FieldTag), formatValue(f.MatchData), formatValue(f.MatchMask))
	if !f.Enable {
		s += " (disabled)"
	}
	return s
}

// dumpAction renders one action_list entry as "name: parameter (disabled)".
func dumpAction(a AclAction) string {
	s := fmt.Sprintf("    %s: %s", actionName(a.ActionTag), formatValue(a.Parameter))
	if !a.Enable {
		s += " (disabled)"
	}
	return s
}

// DumpTable renders a table's software state plus its NPU-side dump, the
// Go equivalent of sai_acl_dump_table (src/acl/sai_acl_debug.c).
func (c *Core) DumpTable(o oid.OID) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tables[o]
	if !ok {
		return "", status.New(status.ItemNotFound, "acl table %v not found", o)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Table %v: stage=%v priority=%d size=%d group=%v rules=%d counters=%d materialized=%v\n",
		t.OID, t.Stage, t.Priority, t.Size, t.GroupOID, t.RuleCount, t.CounterCount, t.Materialized)
	fmt.Fprintf(&b, "  Fields:\n")
	for _, f := range t.FieldSet {
		fmt.Fprintf(&b, "    %s\n", fieldName(f))
	}
	if t.Materialized {
		fmt.Fprintf(&b, "  NPU: %s\n", c.npu.DumpTable(t.NPUHandle))
	}
	return b.String(), nil
}

// DumpRule renders a rule's filters, actions and NPU-side dump, the Go
// equivalent of sai_acl_dump_rule.
func (c *Core) DumpRule(o oid.OID) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rules[o]
	if !ok {
		return "", status.New(status.ItemNotFound, "acl rule %v not found", o)
	}
	return c.dumpRuleLocked(r), nil
}

func (c *Core) dumpRuleLocked(r *AclRule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rule %v: table=%v priority=%d admin_state=%v counter=%v policer=%v\n",
		r.OID, r.TableOID, r.Priority, r.AdminState, r.CounterOID, r.PolicerOID)
	fmt.Fprintf(&b, "  Filters:\n")
	for _, f := range r.FilterList {
		fmt.Fprintln(&b, dumpFilter(f))
	}
	fmt.Fprintf(&b, "  Actions:\n")
	for _, a := range r.ActionList {
		fmt.Fprintln(&b, dumpAction(a))
	}
	fmt.Fprintf(&b, "  NPU: %s\n", c.npu.DumpRule(r.NPUHandle))
	return b.String()
}

// DumpAllTables renders every table and, for each, every rule bound to it —
// the Go equivalent of sai_acl_dump_all_tables walking sai_acl_dump_table and
// sai_acl_dump_all_rules_in_table.
func (c *Core) DumpAllTables() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	oids := make([]oid.OID, 0, len(c.tables))
	for o := range c.tables {
		oids = append(oids, o)
	}
	sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })

	var b strings.Builder
	for _, o := range oids {
		t := c.tables[o]
		fmt.Fprintf(&b, "Table %v: stage=%v priority=%d size=%d group=%v rules=%d counters=%d materialized=%v\n",
			t.OID, t.Stage, t.Priority, t.Size, t.GroupOID, t.RuleCount, t.CounterCount, t.Materialized)
		for _, f := range t.FieldSet {
			fmt.Fprintf(&b, "  field: %s\n", fieldName(f))
		}
		for _, ruleOID := range t.RuleList {
			if r, ok := c.rules[ruleOID]; ok {
				fmt.Fprint(&b, c.dumpRuleLocked(r))
			}
		}
	}
	return b.String()
}

// DumpCounters renders every counter's software state and live NPU values,
// the Go equivalent of sai_acl_dump_all_counters/sai_acl_dump_counter.
func (c *Core) DumpCounters() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	oids := make([]oid.OID, 0, len(c.counters))
	for o := range c.counters {
		oids = append(oids, o)
	}
	sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })

	var b strings.Builder
	for _, o := range oids {
		ctr := c.counters[o]
		fmt.Fprintf(&b, "Counter %v: table=%v type=%v shared_count=%d\n", ctr.OID, ctr.TableOID, ctr.Type, ctr.SharedCount)
		fmt.Fprintf(&b, "  NPU: %s\n", c.npu.DumpCounter(ctr.NPUHandle))
	}
	return b.String()
}
