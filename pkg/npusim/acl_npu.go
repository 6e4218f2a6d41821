package npusim

import (
	"fmt"

	"github.com/newtron-network/aclcore/pkg/acl"
	"github.com/newtron-network/aclcore/pkg/oid"
)

func (s *Sim) CreateTable(t *acl.AclTable) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	cp := *t
	s.tables[h] = &cp
	return h, nil
}

func (s *Sim) DeleteTable(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, handle)
	return nil
}

func (s *Sim) ValidateTableField(stage acl.Stage, tag acl.AttrID) error {
	return nil
}

func (s *Sim) CreateRule(tableHandle uint64, r *acl.AclRule) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	s.rules[h] = &ruleState{tableHandle: tableHandle, rule: *r, counters: make(map[uint64]bool)}
	return h, nil
}

func (s *Sim) DeleteRule(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, handle)
	return nil
}

func (s *Sim) SetRule(tableHandle uint64, candidate, compare, existing *acl.AclRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rules[existing.NPUHandle]
	if !ok {
		return fmt.Errorf("npusim: rule handle %d not found", existing.NPUHandle)
	}
	rs.rule = *candidate
	return nil
}

func (s *Sim) CreateCounter(tableHandle uint64, typ acl.CounterType) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	width := 1
	if typ == acl.CounterBytesPackets {
		width = 2
	}
	s.counters[h] = &counterState{typ: typ, values: make([]uint64, width)}
	return h, nil
}

func (s *Sim) DeleteCounter(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, handle)
	return nil
}

func (s *Sim) SetCounter(handle uint64, typ acl.CounterType, values []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[handle]
	if !ok {
		return fmt.Errorf("npusim: counter handle %d not found", handle)
	}
	copy(c.values, values)
	return nil
}

func (s *Sim) GetCounter(handle uint64, wantCount int) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[handle]
	if !ok {
		return nil, fmt.Errorf("npusim: counter handle %d not found", handle)
	}
	out := make([]uint64, wantCount)
	copy(out, c.values)
	return out, nil
}

func (s *Sim) AttachCounterToRule(ruleHandle, counterHandle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rules[ruleHandle]
	if !ok {
		return fmt.Errorf("npusim: rule handle %d not found", ruleHandle)
	}
	rs.counters[counterHandle] = true
	return nil
}

func (s *Sim) DetachCounterFromRule(ruleHandle, counterHandle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rs, ok := s.rules[ruleHandle]; ok {
		delete(rs.counters, counterHandle)
	}
	return nil
}

func (s *Sim) CreateRange(rt acl.RangeType, min, max uint32) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	s.ranges[h] = &rangeState{min: min, max: max}
	return h, nil
}

func (s *Sim) DeleteRange(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ranges, handle)
	return nil
}

func (s *Sim) SetRange(handle uint64, min, max uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ranges[handle]
	if !ok {
		return fmt.Errorf("npusim: range handle %d not found", handle)
	}
	r.min, r.max = min, max
	return nil
}

func (s *Sim) GetRange(handle uint64) (uint32, uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ranges[handle]
	if !ok {
		return 0, 0, fmt.Errorf("npusim: range handle %d not found", handle)
	}
	return r.min, r.max, nil
}

func (s *Sim) AttachPolicerToRule(ruleHandle uint64, policer oid.OID) error {
	return nil
}

func (s *Sim) DetachPolicerFromRule(ruleHandle uint64, oldPolicer oid.OID) error {
	return nil
}

func (s *Sim) CreateSamplePacket(ruleHandle uint64, direction acl.Stage, sample oid.OID, ports []oid.OID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[sampleKey{ruleHandle, direction}] = sampleState{sample: sample, ports: ports}
	return nil
}

func (s *Sim) RemoveSamplePacket(ruleHandle uint64, direction acl.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.samples, sampleKey{ruleHandle, direction})
	return nil
}

func (s *Sim) DumpTable(handle uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[handle]
	if !ok {
		return fmt.Sprintf("table(%d): <not found>", handle)
	}
	return fmt.Sprintf("table(%d): stage=%v priority=%d size=%d", handle, t.Stage, t.Priority, t.Size)
}

func (s *Sim) DumpRule(handle uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rules[handle]
	if !ok {
		return fmt.Sprintf("rule(%d): <not found>", handle)
	}
	return fmt.Sprintf("rule(%d): priority=%d filters=%d actions=%d", handle, rs.rule.Priority, len(rs.rule.FilterList), len(rs.rule.ActionList))
}

func (s *Sim) DumpCounter(handle uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[handle]
	if !ok {
		return fmt.Sprintf("counter(%d): <not found>", handle)
	}
	return fmt.Sprintf("counter(%d): type=%v values=%v", handle, c.typ, c.values)
}
