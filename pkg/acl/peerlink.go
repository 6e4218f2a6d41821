package acl

import (
	"github.com/newtron-network/aclcore/pkg/oid"
	"github.com/newtron-network/aclcore/pkg/status"
)

// SampleBinding describes a rule's live sample-packet binding in one
// direction, for dumps and CLI display (§4.H).
type SampleBinding struct {
	Stage     Stage
	SampleOID oid.OID
	Ports     []oid.OID // nil means "all ports"
}

// SampleBindings reports the live sample bindings on a rule. The actual
// attach/detach/rebind sequencing lives in rule.go (create/delete) and
// rule_delta.go (set) because every step must participate in that
// operation's single rollback unit — splitting it into a standalone
// attach/detach pair here would require either a second lock acquisition
// (forbidden by §5's single coarse lock) or leaking rollback state across
// functions.
func (c *Core) SampleBindings(ruleOID oid.OID) ([]SampleBinding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rules[ruleOID]
	if !ok {
		return nil, status.New(status.ItemNotFound, "acl rule %v not found", ruleOID)
	}
	var out []SampleBinding
	for _, stage := range []Stage{StageIngress, StageEgress} {
		if r.SampleOID[stage].IsNull() {
			continue
		}
		b := SampleBinding{Stage: stage, SampleOID: r.SampleOID[stage]}
		if stage == StageIngress {
			b.Ports = inPortsOf(r)
		}
		out = append(out, b)
	}
	return out, nil
}
