package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// CreateTableGroupMember binds a table into a table group at a priority.
// Unlike a standalone table's create-only PRIORITY, a group member's
// priority overwrites the target table's own priority — the member is the
// group's way of reordering a table it doesn't otherwise own the priority
// of (SUPPLEMENTED FEATURES item 5). The overwrite re-validates the
// (priority, stage) uniqueness invariant exactly as table create does.
func (c *Core) CreateTableGroupMember(attrs []Attribute) (oid.OID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateList(OpCreate, attrs, func(AttrID) bool { return false }, nil); err != nil {
		return oid.Null, err
	}

	var (
		groupOID    oid.OID
		tableOID    oid.OID
		priority    uint32
		havGroup    bool
		havTable    bool
		havPriority bool
	)
	for _, a := range attrs {
		switch a.ID {
		case AttrTableGroupMemberGroupID:
			groupOID = a.Value.OID
			havGroup = true
		case AttrTableGroupMemberTableID:
			tableOID = a.Value.OID
			havTable = true
		case AttrTableGroupMemberPriority:
			priority = a.Value.U32
			havPriority = true
		}
	}
	if !havGroup || !havTable || !havPriority {
		return oid.Null, status.New(status.MandatoryAttributeMissing, "group id, table id and priority are mandatory")
	}

	group, ok := c.groups[groupOID]
	if !ok {
		return oid.Null, status.New(status.InvalidObjectID, "acl table group %v not found", groupOID)
	}
	table, ok := c.tables[tableOID]
	if !ok {
		return oid.Null, status.New(status.InvalidObjectID, "acl table %v not found", tableOID)
	}
	if table.Stage != group.Stage {
		return oid.Null, status.New(status.InvalidAttrValueBase, "table stage does not match group stage")
	}
	for _, t := range c.tables {
		if t.OID != tableOID && t.Priority == priority && t.Stage == group.Stage {
			return oid.Null, status.New(status.InvalidAttrValueBase, "table with priority %d stage %v already exists", priority, group.Stage)
		}
	}

	index, err := c.memberAlloc.Next()
	if err != nil {
		return oid.Null, err
	}
	newOID := oid.New(oid.TypeAclTableGroupMember, index)

	c.members[newOID] = &AclTableGroupMember{OID: newOID, GroupOID: groupOID, TableOID: tableOID, Priority: priority}
	group.MemberList = append(group.MemberList, newOID)
	table.Priority = priority
	table.GroupOID = groupOID
	return newOID, nil
}

// DeleteTableGroupMember unlinks a table from a group; the table's own
// priority is left as last set by the member (there is no prior value to
// restore to, mirroring how the original member create permanently
// overwrote it).
func (c *Core) DeleteTableGroupMember(o oid.OID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.members[o]
	if !ok {
		return status.New(status.ItemNotFound, "acl table group member %v not found", o)
	}
	if g, ok := c.groups[m.GroupOID]; ok {
		g.MemberList = removeOID(g.MemberList, o)
	}
	delete(c.members, o)
	return nil
}

// GetTableGroupMember returns a copy of the member's software state.
func (c *Core) GetTableGroupMember(o oid.OID) (AclTableGroupMember, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.members[o]
	if !ok {
		return AclTableGroupMember{}, status.New(status.ItemNotFound, "acl table group member %v not found", o)
	}
	return *m, nil
}

func removeOID(list []oid.OID, target oid.OID) []oid.OID {
	for i, o := range list {
		if o == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
