// Package memory is the in-process entity store. It keeps one table per
// entity kind and supports transactions whose writes stay staged until
// Commit applies them all at once.
package memory

import (
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	quotesTable   = "quote_requests"
	ordersTable   = "customer_orders"
	driversTable  = "drivers"
	vehiclesTable = "vehicles"
	entriesTable  = "schedule_entries"
)

type table struct {
	rows  map[kernel.UUID]any
	order []kernel.UUID
}

func newTable() *table {
	return &table{rows: make(map[kernel.UUID]any)}
}

func (t *table) put(id kernel.UUID, row any) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

// Database holds the committed state of every table.
type Database struct {
	mu     sync.RWMutex
	tables map[string]*table
	now    func() time.Time
}

type Option func(*Database)

// WithClock overrides the clock used to stamp updatedAt.
func WithClock(now func() time.Time) Option {
	return func(db *Database) {
		db.now = now
	}
}

func NewDatabase(opts ...Option) *Database {
	db := &Database{
		tables: map[string]*table{
			quotesTable:   newTable(),
			ordersTable:   newTable(),
			driversTable:  newTable(),
			vehiclesTable: newTable(),
			entriesTable:  newTable(),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// get returns the committed row. Callers hold at least the read lock.
func (db *Database) get(name string, id kernel.UUID) (any, bool) {
	row, ok := db.tables[name].rows[id]
	return row, ok
}

// rows returns the committed rows of a table in insertion order. Callers hold
// at least the read lock.
func (db *Database) rows(name string) []any {
	t := db.tables[name]
	out := make([]any, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

type stagedWrite struct {
	table string
	id    kernel.UUID
	row   any
}

// apply writes every staged row under one lock, so readers see all of them
// or none.
func (db *Database) apply(writes []stagedWrite) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, w := range writes {
		db.tables[w.table].put(w.id, w.row)
	}
}
