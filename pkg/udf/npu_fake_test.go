package udf

import (
	"fmt"
	"sync/atomic"
)

// fakeNPU is a minimal udf.NPU test double local to this package.
type fakeNPU struct {
	nextHandle uint64
	groups     map[uint64]Group
	udfs       map[uint64]UDF
	matches    map[uint64]Match
}

func newFakeNPU() *fakeNPU {
	return &fakeNPU{
		groups:  make(map[uint64]Group),
		udfs:    make(map[uint64]UDF),
		matches: make(map[uint64]Match),
	}
}

func (f *fakeNPU) handle() uint64 { return atomic.AddUint64(&f.nextHandle, 1) }

func (f *fakeNPU) CreateGroup(g *Group) (uint64, error) {
	h := f.handle()
	f.groups[h] = *g
	return h, nil
}
func (f *fakeNPU) DeleteGroup(handle uint64) error { delete(f.groups, handle); return nil }

func (f *fakeNPU) CreateUDF(u *UDF) (uint64, error) {
	h := f.handle()
	f.udfs[h] = *u
	return h, nil
}
func (f *fakeNPU) DeleteUDF(handle uint64) error { delete(f.udfs, handle); return nil }
func (f *fakeNPU) SetUDFHashMask(handle uint64, mask []byte) error {
	u, ok := f.udfs[handle]
	if !ok {
		return fmt.Errorf("fakeNPU: udf handle %d not found", handle)
	}
	u.HashMask = mask
	f.udfs[handle] = u
	return nil
}

func (f *fakeNPU) CreateMatch(m *Match) (uint64, error) {
	h := f.handle()
	f.matches[h] = *m
	return h, nil
}
func (f *fakeNPU) DeleteMatch(handle uint64) error { delete(f.matches, handle); return nil }
func (f *fakeNPU) GetMatchAttribute(handle uint64) (*Match, error) {
	m, ok := f.matches[handle]
	if !ok {
		return nil, fmt.Errorf("fakeNPU: match handle %d not found", handle)
	}
	cp := m
	return &cp, nil
}
