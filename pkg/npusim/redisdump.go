package npusim

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisDumpSink mirrors DumpTable/DumpRule/DumpCounter output into Redis, the
// way the teacher's sonic.StateDBClient mirrors device state into STATE_DB —
// here it's a write-through observability mirror of the in-memory simulator,
// not a source of truth the core reads back from.
type RedisDumpSink struct {
	client *redis.Client
	ctx    context.Context
	db     int
}

// NewRedisDumpSink builds a client for addr (host:port) selecting db without
// dialing it (Connect checks connectivity), matching the
// teacher's NewStateDBClient/NewConfigDBClient shape (addr plus a fixed
// logical DB index, rather than a full redis.Options passthrough).
func NewRedisDumpSink(addr string, db int) *RedisDumpSink {
	return &RedisDumpSink{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		ctx: context.Background(),
		db:  db,
	}
}

// Connect verifies connectivity.
func (r *RedisDumpSink) Connect() error {
	return r.client.Ping(r.ctx).Err()
}

// Close releases the underlying connection.
func (r *RedisDumpSink) Close() error {
	return r.client.Close()
}

// MirrorTable writes a table's dump string under ACL_TABLE_DUMP|<handle>.
func (r *RedisDumpSink) MirrorTable(handle uint64, dump string) error {
	return r.client.HSet(r.ctx, fmt.Sprintf("ACL_TABLE_DUMP|%d", handle), "dump", dump).Err()
}

// MirrorRule writes a rule's dump string under ACL_RULE_DUMP|<handle>.
func (r *RedisDumpSink) MirrorRule(handle uint64, dump string) error {
	return r.client.HSet(r.ctx, fmt.Sprintf("ACL_RULE_DUMP|%d", handle), "dump", dump).Err()
}

// MirrorCounter writes a counter's dump string under ACL_COUNTER_DUMP|<handle>.
func (r *RedisDumpSink) MirrorCounter(handle uint64, dump string) error {
	return r.client.HSet(r.ctx, fmt.Sprintf("ACL_COUNTER_DUMP|%d", handle), "dump", dump).Err()
}

// SyncAll mirrors every live table, rule and counter in sim into Redis in a
// single pipelined round trip, the way the teacher's PipelineSet batches a
// full ConfigDB write via TxPipeline rather than one HSET per entry.
func (r *RedisDumpSink) SyncAll(sim *Sim) error {
	sim.mu.Lock()
	var tableHandles, ruleHandles, counterHandles []uint64
	for h := range sim.tables {
		tableHandles = append(tableHandles, h)
	}
	for h := range sim.rules {
		ruleHandles = append(ruleHandles, h)
	}
	for h := range sim.counters {
		counterHandles = append(counterHandles, h)
	}
	sim.mu.Unlock()

	type entry struct {
		key, dump string
	}
	var entries []entry
	for _, h := range tableHandles {
		entries = append(entries, entry{fmt.Sprintf("ACL_TABLE_DUMP|%d", h), sim.DumpTable(h)})
	}
	for _, h := range ruleHandles {
		entries = append(entries, entry{fmt.Sprintf("ACL_RULE_DUMP|%d", h), sim.DumpRule(h)})
	}
	for _, h := range counterHandles {
		entries = append(entries, entry{fmt.Sprintf("ACL_COUNTER_DUMP|%d", h), sim.DumpCounter(h)})
	}

	pipe := r.client.TxPipeline()
	for _, e := range entries {
		pipe.HSet(r.ctx, e.key, "dump", e.dump)
	}
	_, err := pipe.Exec(r.ctx)
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}
