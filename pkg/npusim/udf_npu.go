package npusim

import (
	"fmt"

	"github.com/newtron-network/aclcore/pkg/udf"
)

func (s *Sim) CreateGroup(g *udf.Group) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	cp := *g
	s.groups[h] = &cp
	return h, nil
}

func (s *Sim) DeleteGroup(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, handle)
	return nil
}

func (s *Sim) CreateUDF(u *udf.UDF) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	cp := *u
	s.udfs[h] = &cp
	return h, nil
}

func (s *Sim) DeleteUDF(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.udfs, handle)
	return nil
}

func (s *Sim) SetUDFHashMask(handle uint64, mask []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.udfs[handle]
	if !ok {
		return fmt.Errorf("npusim: udf handle %d not found", handle)
	}
	u.HashMask = append([]byte(nil), mask...)
	return nil
}

func (s *Sim) CreateMatch(m *udf.Match) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle()
	cp := *m
	s.matches[h] = &cp
	return h, nil
}

func (s *Sim) DeleteMatch(handle uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, handle)
	return nil
}

func (s *Sim) GetMatchAttribute(handle uint64) (*udf.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[handle]
	if !ok {
		return nil, fmt.Errorf("npusim: match handle %d not found", handle)
	}
	cp := *m
	return &cp, nil
}
