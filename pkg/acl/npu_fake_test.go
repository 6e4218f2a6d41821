package acl

import (
	"fmt"
	"sync/atomic"

	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/udf"
)

// fakeNPU is a minimal acl.NPU test double, local to this package to avoid
// importing pkg/npusim (which itself imports pkg/acl).
type fakeNPU struct {
	nextHandle uint64

	tables   map[uint64]AclTable
	rules    map[uint64]AclRule
	counters map[uint64][]uint64
	ranges   map[uint64][2]uint32
	samples  map[fakeSampleKey]oid.OID
	policers map[oid.OID]PolicerMode
}

type fakeSampleKey struct {
	ruleHandle uint64
	direction  Stage
}

func newFakeNPU() *fakeNPU {
	return &fakeNPU{
		tables:   make(map[uint64]AclTable),
		rules:    make(map[uint64]AclRule),
		counters: make(map[uint64][]uint64),
		ranges:   make(map[uint64][2]uint32),
		samples:  make(map[fakeSampleKey]oid.OID),
		policers: make(map[oid.OID]PolicerMode),
	}
}

func (f *fakeNPU) handle() uint64 { return atomic.AddUint64(&f.nextHandle, 1) }

func (f *fakeNPU) CreateTable(t *AclTable) (uint64, error) {
	h := f.handle()
	f.tables[h] = *t
	return h, nil
}
func (f *fakeNPU) DeleteTable(handle uint64) error { delete(f.tables, handle); return nil }
func (f *fakeNPU) ValidateTableField(stage Stage, tag AttrID) error { return nil }

func (f *fakeNPU) CreateRule(tableHandle uint64, r *AclRule) (uint64, error) {
	h := f.handle()
	f.rules[h] = *r
	return h, nil
}
func (f *fakeNPU) DeleteRule(handle uint64) error { delete(f.rules, handle); return nil }
func (f *fakeNPU) SetRule(tableHandle uint64, candidate, compare, existing *AclRule) error {
	f.rules[existing.NPUHandle] = *candidate
	return nil
}

func (f *fakeNPU) CreateCounter(tableHandle uint64, typ CounterType) (uint64, error) {
	h := f.handle()
	width := 1
	if typ == CounterBytesPackets {
		width = 2
	}
	f.counters[h] = make([]uint64, width)
	return h, nil
}
func (f *fakeNPU) DeleteCounter(handle uint64) error { delete(f.counters, handle); return nil }
func (f *fakeNPU) SetCounter(handle uint64, typ CounterType, values []uint64) error {
	v, ok := f.counters[handle]
	if !ok {
		return fmt.Errorf("fakeNPU: counter handle %d not found", handle)
	}
	copy(v, values)
	return nil
}
func (f *fakeNPU) GetCounter(handle uint64, wantCount int) ([]uint64, error) {
	v, ok := f.counters[handle]
	if !ok {
		return nil, fmt.Errorf("fakeNPU: counter handle %d not found", handle)
	}
	out := make([]uint64, wantCount)
	copy(out, v)
	return out, nil
}
func (f *fakeNPU) AttachCounterToRule(ruleHandle, counterHandle uint64) error { return nil }
func (f *fakeNPU) DetachCounterFromRule(ruleHandle, counterHandle uint64) error { return nil }

func (f *fakeNPU) CreateRange(rt RangeType, min, max uint32) (uint64, error) {
	h := f.handle()
	f.ranges[h] = [2]uint32{min, max}
	return h, nil
}
func (f *fakeNPU) DeleteRange(handle uint64) error { delete(f.ranges, handle); return nil }
func (f *fakeNPU) SetRange(handle uint64, min, max uint32) error {
	if _, ok := f.ranges[handle]; !ok {
		return fmt.Errorf("fakeNPU: range handle %d not found", handle)
	}
	f.ranges[handle] = [2]uint32{min, max}
	return nil
}
func (f *fakeNPU) GetRange(handle uint64) (uint32, uint32, error) {
	r, ok := f.ranges[handle]
	if !ok {
		return 0, 0, fmt.Errorf("fakeNPU: range handle %d not found", handle)
	}
	return r[0], r[1], nil
}

func (f *fakeNPU) PolicerMode(policer oid.OID) (PolicerMode, bool) {
	mode, ok := f.policers[policer]
	return mode, ok
}
func (f *fakeNPU) AttachPolicerToRule(ruleHandle uint64, policer oid.OID) error { return nil }
func (f *fakeNPU) DetachPolicerFromRule(ruleHandle uint64, oldPolicer oid.OID) error { return nil }

func (f *fakeNPU) CreateSamplePacket(ruleHandle uint64, direction Stage, sample oid.OID, ports []oid.OID) error {
	f.samples[fakeSampleKey{ruleHandle, direction}] = sample
	return nil
}
func (f *fakeNPU) RemoveSamplePacket(ruleHandle uint64, direction Stage) error {
	delete(f.samples, fakeSampleKey{ruleHandle, direction})
	return nil
}

func (f *fakeNPU) DumpTable(handle uint64) string   { return fmt.Sprintf("table(%d)", handle) }
func (f *fakeNPU) DumpRule(handle uint64) string    { return fmt.Sprintf("rule(%d)", handle) }
func (f *fakeNPU) DumpCounter(handle uint64) string { return fmt.Sprintf("counter(%d)", handle) }

// fakeUDFNPU is a minimal udf.NPU test double, local to this package.
type fakeUDFNPU struct {
	nextHandle uint64
	groups     map[uint64]udf.Group
	udfs       map[uint64]udf.UDF
	matches    map[uint64]udf.Match
}

func newFakeUDFNPU() *fakeUDFNPU {
	return &fakeUDFNPU{
		groups:  make(map[uint64]udf.Group),
		udfs:    make(map[uint64]udf.UDF),
		matches: make(map[uint64]udf.Match),
	}
}

func (f *fakeUDFNPU) handle() uint64 { return atomic.AddUint64(&f.nextHandle, 1) }

func (f *fakeUDFNPU) CreateGroup(g *udf.Group) (uint64, error) {
	h := f.handle()
	f.groups[h] = *g
	return h, nil
}
func (f *fakeUDFNPU) DeleteGroup(handle uint64) error { delete(f.groups, handle); return nil }

func (f *fakeUDFNPU) CreateUDF(u *udf.UDF) (uint64, error) {
	h := f.handle()
	f.udfs[h] = *u
	return h, nil
}
func (f *fakeUDFNPU) DeleteUDF(handle uint64) error { delete(f.udfs, handle); return nil }
func (f *fakeUDFNPU) SetUDFHashMask(handle uint64, mask []byte) error {
	u, ok := f.udfs[handle]
	if !ok {
		return fmt.Errorf("fakeUDFNPU: udf handle %d not found", handle)
	}
	u.HashMask = mask
	f.udfs[handle] = u
	return nil
}

func (f *fakeUDFNPU) CreateMatch(m *udf.Match) (uint64, error) {
	h := f.handle()
	f.matches[h] = *m
	return h, nil
}
func (f *fakeUDFNPU) DeleteMatch(handle uint64) error { delete(f.matches, handle); return nil }
func (f *fakeUDFNPU) GetMatchAttribute(handle uint64) (*udf.Match, error) {
	m, ok := f.matches[handle]
	if !ok {
		return nil, fmt.Errorf("fakeUDFNPU: match handle %d not found", handle)
	}
	cp := m
	return &cp, nil
}
