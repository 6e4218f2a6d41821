package udf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

func TestCreateUDFDefaultsHashMaskOnHashGroup(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupHash, 4)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	udfOID, err := c.CreateUDF(groupOID, oid.Null, BaseL3, 0, nil)
	if err != nil {
		t.Fatalf("CreateUDF() error = %v", err)
	}
	u, err := c.GetUDF(udfOID)
	if err != nil {
		t.Fatalf("GetUDF() error = %v", err)
	}
	if !bytes.Equal(u.HashMask, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("default hash mask on a HASH group = %v, want all-0xFF of group length", u.HashMask)
	}
}

func TestCreateUDFRejectsHashMaskOnGenericGroup(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupGeneric, 2)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	_, err = c.CreateUDF(groupOID, oid.Null, BaseL2, 0, []byte{0xFF, 0xFF})
	if !errors.Is(err, status.ErrInvalidAttribute) {
		t.Errorf("hash mask on a GENERIC group: got %v, want ErrInvalidAttribute", err)
	}
}

func TestCreateUDFRejectsWrongLengthHashMask(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupHash, 4)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	_, err = c.CreateUDF(groupOID, oid.Null, BaseL3, 0, []byte{0xFF})
	if !errors.Is(err, status.ErrInvalidAttribute) {
		t.Errorf("wrong-length hash mask: got %v, want ErrInvalidAttribute", err)
	}
}

func TestDeleteUDFUnlinksFromGroup(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupGeneric, 2)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	udfOID, err := c.CreateUDF(groupOID, oid.Null, BaseL2, 0, nil)
	if err != nil {
		t.Fatalf("CreateUDF() error = %v", err)
	}

	if err := c.DeleteUDF(udfOID); err != nil {
		t.Fatalf("DeleteUDF() error = %v", err)
	}
	g, err := c.GetGroup(groupOID)
	if err != nil {
		t.Fatalf("GetGroup() error = %v", err)
	}
	if g.UDFCount != 0 || len(g.UDFList) != 0 {
		t.Errorf("group still references deleted udf: %+v", g)
	}
	// The group should now be deletable too.
	if err := c.DeleteGroup(groupOID); err != nil {
		t.Errorf("DeleteGroup after its only udf is removed: got %v, want nil", err)
	}
}

func TestSetHashMaskRejectsOnGenericGroup(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupGeneric, 2)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	udfOID, err := c.CreateUDF(groupOID, oid.Null, BaseL2, 0, nil)
	if err != nil {
		t.Fatalf("CreateUDF() error = %v", err)
	}

	if err := c.SetHashMask(udfOID, []byte{0x0F, 0x0F}); !errors.Is(err, status.ErrInvalidAttribute) {
		t.Errorf("SetHashMask on a udf bound to a GENERIC group: got %v, want ErrInvalidAttribute", err)
	}
}

func TestSetHashMaskUpdatesOnHashGroup(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupHash, 2)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	udfOID, err := c.CreateUDF(groupOID, oid.Null, BaseL3, 4, nil)
	if err != nil {
		t.Fatalf("CreateUDF() error = %v", err)
	}

	if err := c.SetHashMask(udfOID, []byte{0x0F, 0xF0}); err != nil {
		t.Fatalf("SetHashMask() error = %v", err)
	}
	u, err := c.GetUDF(udfOID)
	if err != nil {
		t.Fatalf("GetUDF() error = %v", err)
	}
	if !bytes.Equal(u.HashMask, []byte{0x0F, 0xF0}) {
		t.Errorf("hash mask after set = %v, want [0f f0]", u.HashMask)
	}
}

func TestGroupHWIDAccessor(t *testing.T) {
	c := NewCore(newFakeNPU())
	groupOID, err := c.CreateGroup(GroupGeneric, 2)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	gt, ok := c.GroupType(groupOID)
	if !ok || gt != GroupGeneric {
		t.Errorf("GroupType(%v) = (%v, %v), want (GroupGeneric, true)", groupOID, gt, ok)
	}
	if _, ok := c.GroupHWID(groupOID); !ok {
		t.Error("GroupHWID should report ok=true for a live group")
	}
	if _, ok := c.GroupType(oid.New(oid.TypeUdfGroup, 999)); ok {
		t.Error("GroupType for an unknown oid should report ok=false")
	}
}
