package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// CreateTableGroup builds an ACL table group. Groups carry no NPU handle of
// their own — a group is a software-side binding point whose member tables
// must match its stage and share priority ordering within (§3.1, component I).
func (c *Core) CreateTableGroup(attrs []Attribute) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpCreate, attrs, func(AttrID) bool { return false }, nil); err != nil {
		return oid.Null, err
	}

	var (
		stage        Stage
		groupType    int
		bindPoints   []int
		havStage     bool
		havType      bool
	)
	for _, a := range attrs {
		switch a.ID {
		case AttrTableGroupStage:
			stage = Stage(a.Value.U32)
			havStage = true
		case AttrTableGroupType:
			groupType = int(a.Value.S32)
			havType = true
		case AttrTableGroupBindPointList:
			for _, o := range a.Value.OIDList {
				bindPoints = append(bindPoints, int(o.Index()))
			}
		}
	}
	if !havStage || !havType {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "table group stage and type are mandatory")
	}

	index, err := c.groupAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeAclTableGroup, index)

	c.groups[newOID] = &AclTableGroup{
		OID:               newOID,
		Stage:             stage,
		GroupType:         groupType,
		BindPointTypeList: bindPoints,
	}
	return newOID, nil
}

// DeleteTableGroup rejects a group that still has member tables (§3.1:
// deletion ordering mirrors a table's rule_count/counter_count guards).
func (c *Core) DeleteTableGroup(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl table group %v not found", o)
	}
	if len(g.MemberList) > 0 {
		return status.New(status.ObjectInUse, "acl table group %v still has %d members", o, len(g.MemberList))
	}
	delete(c.groups, o)
	return nil
}

// GetTableGroup returns a read-only copy of the group's software state.
func (c *Core) GetTableGroup(o oid.OID) (AclTableGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[o]
	if !ok {
		return AclTableGroup{}, status.New(status.ItemNotFound, "acl table group %v not found", o)
	}
	cp := *g
	cp.MemberList = append([]oid.OID(nil), g.MemberList...)
	cp.BindPointTypeList = append([]int(nil), g.BindPointTypeList...)
	return cp, nil
}
