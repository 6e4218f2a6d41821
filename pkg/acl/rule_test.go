package acl

import (
	"errors"
	"fmt"
	"testing"

	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
	"github.com/newtron-network/aclcore/pkg/udf"
)

func mustCreateCounter(t *testing.T, c *Core, tableOID oid.OID) oid.OID {
	t.Helper()
	o, err := c.CreateCounter([]Attribute{
		{ID: AttrCounterTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrCounterEnablePacketCount, Value: Value{Kind: KindBool, Bool: true}},
	})
	if err != nil {
		t.Fatalf("CreateCounter() error = %v", err)
	}
	return o
}

func TestCreateRuleRequiresAtLeastOneField(t *testing.T) {
	c, _ := newTestCore(t)
	tableOID := mustCreateTable(t, c, StageIngress, 1, AttrTableFieldSrcIP)

	_, err := c.CreateRule([]Attribute{
		{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: 1}},
	})
	if !errors.Is(err, status.ErrMandatoryMissing) {
		t.Errorf("rule with no fields: got %v, want ErrMandatoryMissing", err)
	}
}

func TestCreateRuleFieldMustBeInTableFieldSet(t *testing.T) {
	c, _ := newTestCore(t)
	tableOID := mustCreateTable(t, c, StageIngress, 1, AttrTableFieldSrcIP)

	_, err := c.CreateRule([]Attribute{
		{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: 1}},
		{ID: AttrRuleFieldDstIP, Value: Value{Kind: KindIPv4, IPv4: [4]byte{1, 2, 3, 4}}},
	})
	if !errors.Is(err, status.ErrInvalidAttrValue) {
		t.Errorf("field not admitted by table: got %v, want ErrInvalidAttrValue", err)
	}
}

func TestOutPortRewritesToDstPortOnIngress(t *testing.T) {
	c, _ := newTestCore(t)
	tableOID := mustCreateTable(t, c, StageIngress, 1, AttrTableFieldOutPort)

	portOID := oid.New(oid.TypePort, 7)
	ruleOID, err := c.CreateRule([]Attribute{
		{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: 1}},
		{ID: AttrRuleFieldOutPort, Value: Value{Kind: KindOID, OID: portOID}},
	})
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	r, err := c.GetRule(ruleOID)
	if err != nil {
		t.Fatalf("GetRule() error = %v", err)
	}
	if len(r.FilterList) != 1 || r.FilterList[0].FieldTag != AttrRuleFieldDstPort {
		t.Fatalf("expected OUT_PORT to rewrite to DST_PORT on ingress, got %+v", r.FilterList)
	}
}

func TestOutPortStaysOutPortOnEgress(t *testing.T) {
	c, _ := newTestCore(t)
	tableOID := mustCreateTable(t, c, StageEgress, 1, AttrTableFieldOutPort)

	portOID := oid.New(oid.TypePort, 7)
	ruleOID, err := c.CreateRule([]Attribute{
		{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: 1}},
		{ID: AttrRuleFieldOutPort, Value: Value{Kind: KindOID, OID: portOID}},
	})
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	r, err := c.GetRule(ruleOID)
	if err != nil {
		t.Fatalf("GetRule() error = %v", err)
	}
	if len(r.FilterList) != 1 || r.FilterList[0].FieldTag != AttrRuleFieldOutPort {
		t.Fatalf("OUT_PORT should not rewrite on egress, got %+v", r.FilterList)
	}
}

func TestRulePrioritySortedInsertion(t *testing.T) {
	c, _ := newTestCore(t)
	tableOID := mustCreateTable(t, c, StageIngress, 1, AttrTableFieldSrcIP)

	var oids []oid.OID
	for _, p := range []uint32{30, 10, 20} {
		o, err := c.CreateRule([]Attribute{
			{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
			{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: p}},
			{ID: AttrRuleFieldSrcIP, Value: Value{Kind: KindIPv4, IPv4: [4]byte{1, 1, 1, byte(p)}}},
		})
		if err != nil {
			t.Fatalf("CreateRule() error = %v", err)
		}
		oids = append(oids, o)
	}
	table, err := c.GetTable(tableOID)
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if len(table.RuleList) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(table.RuleList))
	}
	wantOrder := []oid.OID{oids[1], oids[2], oids[0]} // priorities 10, 20, 30
	for i, want := range wantOrder {
		if table.RuleList[i] != want {
			t.Errorf("RuleList[%d] = %v, want %v", i, table.RuleList[i], want)
		}
	}
}

func TestDeleteRuleUnlinksFromTable(t *testing.T) {
	c, _ := newTestCore(t)
	tableOID := mustCreateTable(t, c, StageIngress, 1, AttrTableFieldSrcIP)
	ruleOID, err := c.CreateRule([]Attribute{
		{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: 1}},
		{ID: AttrRuleFieldSrcIP, Value: Value{Kind: KindIPv4, IPv4: [4]byte{1, 2, 3, 4}}},
	})
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	if err := c.DeleteRule(ruleOID); err != nil {
		t.Fatalf("DeleteRule() error = %v", err)
	}
	table, err := c.GetTable(tableOID)
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if table.RuleCount != 0 || len(table.RuleList) != 0 {
		t.Errorf("table still references deleted rule: %+v", table)
	}
	if _, err := c.GetRule(ruleOID); !errors.Is(err, status.ErrItemNotFound) {
		t.Errorf("GetRule after delete: got %v, want ErrItemNotFound", err)
	}
}

func TestCreateRuleRollsBackOnCounterAttachFailure(t *testing.T) {
	failing := &failAttachCounterNPU{fakeNPU: newFakeNPU()}
	udfCore := udf.NewCore(newFakeUDFNPU())
	c := NewCore(failing, udfCore)

	tableOID := mustCreateTable(t, c, StageIngress, 1, AttrTableFieldSrcIP)
	counterOID := mustCreateCounter(t, c, tableOID)

	_, err := c.CreateRule([]Attribute{
		{ID: AttrRuleTableID, Value: Value{Kind: KindOID, OID: tableOID}},
		{ID: AttrRulePriority, Value: Value{Kind: KindU32, U32: 1}},
		{ID: AttrRuleFieldSrcIP, Value: Value{Kind: KindIPv4, IPv4: [4]byte{1, 2, 3, 4}}},
		{ID: AttrRuleActionCounter, Value: Value{Kind: KindOID, OID: counterOID}},
	})
	if err == nil {
		t.Fatal("expected CreateRule to fail when the NPU rejects the counter attach")
	}

	table, getErr := c.GetTable(tableOID)
	if getErr != nil {
		t.Fatalf("GetTable() error = %v", getErr)
	}
	if table.RuleCount != 0 || len(table.RuleList) != 0 {
		t.Errorf("a failed create must leave no trace in the table, got %+v", table)
	}
	cnt := c.counters[counterOID]
	if cnt.SharedCount != 0 {
		t.Errorf("counter SharedCount should be rolled back to 0, got %d", cnt.SharedCount)
	}
}

// failAttachCounterNPU wraps fakeNPU and injects a failure on
// AttachCounterToRule to exercise CreateRule's rollback path.
type failAttachCounterNPU struct {
	*fakeNPU
}

func (f *failAttachCounterNPU) AttachCounterToRule(ruleHandle, counterHandle uint64) error {
	return fmt.Errorf("npusim: injected failure attaching counter %d to rule %d", counterHandle, ruleHandle)
}
