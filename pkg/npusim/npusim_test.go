package npusim

import (
	"strings"
	"testing"

	"github.com/newtron-network/aclcore/pkg/acl"
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/udf"
)

func TestHandlesAreUniqueAcrossKinds(t *testing.T) {
	s := New()
	seen := map[uint64]bool{}
	record := func(h uint64, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error allocating handle: %v", err)
		}
		if seen[h] {
			t.Fatalf("duplicate handle %d", h)
		}
		seen[h] = true
	}

	h1, err := s.CreateTable(&acl.AclTable{Stage: acl.StageIngress, Priority: 1})
	record(h1, err)
	h2, err := s.CreateGroup(&udf.Group{Type: udf.GroupGeneric, Length: 2})
	record(h2, err)
	h3, err := s.CreateCounter(h1, acl.CounterPackets)
	record(h3, err)
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct handles, got %d", len(seen))
	}
}

func TestAclNPURoundTripsTableAndRule(t *testing.T) {
	s := New()
	tableHandle, err := s.CreateTable(&acl.AclTable{Stage: acl.StageIngress, Priority: 5, Size: 100})
	if err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	rule := &acl.AclRule{Priority: 10}
	ruleHandle, err := s.CreateRule(tableHandle, rule)
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	dump := s.DumpRule(ruleHandle)
	if !strings.Contains(dump, "priority=10") {
		t.Errorf("DumpRule() = %q, want it to mention priority=10", dump)
	}

	candidate := &acl.AclRule{Priority: 20, NPUHandle: ruleHandle}
	if err := s.SetRule(tableHandle, candidate, rule, candidate); err != nil {
		t.Fatalf("SetRule() error = %v", err)
	}
	if got := s.DumpRule(ruleHandle); !strings.Contains(got, "priority=20") {
		t.Errorf("DumpRule() after SetRule = %q, want it to mention priority=20", got)
	}

	if err := s.DeleteRule(ruleHandle); err != nil {
		t.Fatalf("DeleteRule() error = %v", err)
	}
	if got := s.DumpRule(ruleHandle); !strings.Contains(got, "not found") {
		t.Errorf("DumpRule() after delete = %q, want not found", got)
	}

	if err := s.DeleteTable(tableHandle); err != nil {
		t.Fatalf("DeleteTable() error = %v", err)
	}
	if got := s.DumpTable(tableHandle); !strings.Contains(got, "not found") {
		t.Errorf("DumpTable() after delete = %q, want not found", got)
	}
}

func TestAclNPUCounterLifecycle(t *testing.T) {
	s := New()
	tableHandle, _ := s.CreateTable(&acl.AclTable{Stage: acl.StageIngress, Priority: 1})
	counterHandle, err := s.CreateCounter(tableHandle, acl.CounterBytesPackets)
	if err != nil {
		t.Fatalf("CreateCounter() error = %v", err)
	}

	if err := s.SetCounter(counterHandle, acl.CounterBytesPackets, []uint64{42, 7}); err != nil {
		t.Fatalf("SetCounter() error = %v", err)
	}
	values, err := s.GetCounter(counterHandle, 2)
	if err != nil {
		t.Fatalf("GetCounter() error = %v", err)
	}
	if values[0] != 42 || values[1] != 7 {
		t.Errorf("GetCounter() = %v, want [42 7]", values)
	}

	ruleHandle, _ := s.CreateRule(tableHandle, &acl.AclRule{})
	if err := s.AttachCounterToRule(ruleHandle, counterHandle); err != nil {
		t.Fatalf("AttachCounterToRule() error = %v", err)
	}
	if !s.rules[ruleHandle].counters[counterHandle] {
		t.Error("rule should record the attached counter")
	}
	if err := s.DetachCounterFromRule(ruleHandle, counterHandle); err != nil {
		t.Fatalf("DetachCounterFromRule() error = %v", err)
	}
	if s.rules[ruleHandle].counters[counterHandle] {
		t.Error("rule should no longer record the detached counter")
	}
}

func TestAclNPURangeLifecycle(t *testing.T) {
	s := New()
	h, err := s.CreateRange(acl.RangeSrcL4PortRange, 10, 20)
	if err != nil {
		t.Fatalf("CreateRange() error = %v", err)
	}
	min, max, err := s.GetRange(h)
	if err != nil || min != 10 || max != 20 {
		t.Fatalf("GetRange() = (%d, %d, %v), want (10, 20, nil)", min, max, err)
	}
	if err := s.SetRange(h, 30, 40); err != nil {
		t.Fatalf("SetRange() error = %v", err)
	}
	min, max, err = s.GetRange(h)
	if err != nil || min != 30 || max != 40 {
		t.Fatalf("GetRange() after set = (%d, %d, %v), want (30, 40, nil)", min, max, err)
	}
	if err := s.DeleteRange(h); err != nil {
		t.Fatalf("DeleteRange() error = %v", err)
	}
	if _, _, err := s.GetRange(h); err == nil {
		t.Error("GetRange after delete should error")
	}
}

func TestAclNPUSamplePacketBinding(t *testing.T) {
	s := New()
	ruleHandle := uint64(1)
	sampleOID := oid.New(oid.TypeSamplePacket, 3)
	ports := []oid.OID{oid.New(oid.TypePort, 1), oid.New(oid.TypePort, 2)}

	if err := s.CreateSamplePacket(ruleHandle, acl.StageIngress, sampleOID, ports); err != nil {
		t.Fatalf("CreateSamplePacket() error = %v", err)
	}
	st, ok := s.samples[sampleKey{ruleHandle, acl.StageIngress}]
	if !ok || st.sample != sampleOID || len(st.ports) != 2 {
		t.Fatalf("sample state = %+v, ok=%v, want sample=%v with 2 ports", st, ok, sampleOID)
	}

	if err := s.RemoveSamplePacket(ruleHandle, acl.StageIngress); err != nil {
		t.Fatalf("RemoveSamplePacket() error = %v", err)
	}
	if _, ok := s.samples[sampleKey{ruleHandle, acl.StageIngress}]; ok {
		t.Error("sample binding should be removed")
	}
}

func TestPolicerModeRoundTrips(t *testing.T) {
	s := New()
	policer := oid.New(oid.TypePolicer, 9)
	if _, ok := s.PolicerMode(policer); ok {
		t.Fatal("PolicerMode for an unregistered policer should report ok=false")
	}
	s.SetPolicerMode(policer, acl.PolicerModeTrTCM)
	mode, ok := s.PolicerMode(policer)
	if !ok || mode != acl.PolicerModeTrTCM {
		t.Errorf("PolicerMode() = (%v, %v), want (PolicerModeTrTCM, true)", mode, ok)
	}
}

func TestUdfNPURoundTripsGroupUDFAndMatch(t *testing.T) {
	s := New()
	groupHandle, err := s.CreateGroup(&udf.Group{Type: udf.GroupHash, Length: 4})
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if s.groups[groupHandle].Type != udf.GroupHash {
		t.Fatalf("stored group type = %v, want GroupHash", s.groups[groupHandle].Type)
	}

	udfHandle, err := s.CreateUDF(&udf.UDF{GroupOID: oid.New(oid.TypeUdfGroup, 1), Base: udf.BaseL3, Offset: 0})
	if err != nil {
		t.Fatalf("CreateUDF() error = %v", err)
	}
	if err := s.SetUDFHashMask(udfHandle, []byte{0x0F, 0xF0, 0x0F, 0xF0}); err != nil {
		t.Fatalf("SetUDFHashMask() error = %v", err)
	}
	if got := s.udfs[udfHandle].HashMask; string(got) != string([]byte{0x0F, 0xF0, 0x0F, 0xF0}) {
		t.Errorf("stored hash mask = %v, want [0f f0 0f f0]", got)
	}

	matchHandle, err := s.CreateMatch(&udf.Match{L2Type: 0x0800, L3Type: 6, Priority: 1})
	if err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	m, err := s.GetMatchAttribute(matchHandle)
	if err != nil {
		t.Fatalf("GetMatchAttribute() error = %v", err)
	}
	if m.L2Type != 0x0800 || m.L3Type != 6 {
		t.Errorf("GetMatchAttribute() = %+v, want L2Type=0x0800 L3Type=6", m)
	}

	if err := s.DeleteMatch(matchHandle); err != nil {
		t.Fatalf("DeleteMatch() error = %v", err)
	}
	if _, err := s.GetMatchAttribute(matchHandle); err == nil {
		t.Error("GetMatchAttribute after delete should error")
	}
	if err := s.DeleteUDF(udfHandle); err != nil {
		t.Fatalf("DeleteUDF() error = %v", err)
	}
	if err := s.DeleteGroup(groupHandle); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
}

// TestSimDrivesRealCores wires Sim as the shared NPU backend for both
// acl.Core and udf.Core, the way cmd/aclcorectl's sim backend does, and
// exercises a create end to end through both layers.
func TestSimDrivesRealCores(t *testing.T) {
	sim := New()
	udfCore := udf.NewCore(sim)
	aclCore := acl.NewCore(sim, udfCore)

	tableOID, err := aclCore.CreateTable([]acl.Attribute{
		{ID: acl.AttrTableStage, Value: acl.Value{Kind: acl.KindU32, U32: uint32(acl.StageIngress)}},
		{ID: acl.AttrTablePriority, Value: acl.Value{Kind: acl.KindU32, U32: 1}},
		{ID: acl.AttrTableFieldSrcIP, Value: acl.Value{Kind: acl.KindBool, Bool: true}},
	})
	if err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	ruleOID, err := aclCore.CreateRule([]acl.Attribute{
		{ID: acl.AttrRuleTableID, Value: acl.Value{Kind: acl.KindOID, OID: tableOID}},
		{ID: acl.AttrRulePriority, Value: acl.Value{Kind: acl.KindU32, U32: 1}},
		{ID: acl.AttrRuleFieldSrcIP, Value: acl.Value{Kind: acl.KindIPv4, IPv4: [4]byte{10, 0, 0, 1}}},
	})
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	r, err := aclCore.GetRule(ruleOID)
	if err != nil {
		t.Fatalf("GetRule() error = %v", err)
	}
	if dump := sim.DumpRule(r.NPUHandle); !strings.Contains(dump, "filters=1") {
		t.Errorf("DumpRule() = %q, want it to mention filters=1", dump)
	}

	groupOID, err := udfCore.CreateGroup(udf.GroupGeneric, 2)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if _, err := udfCore.CreateUDF(groupOID, oid.Null, udf.BaseL2, 0, nil); err != nil {
		t.Fatalf("CreateUDF() error = %v", err)
	}
}
