package norm

import "time"

// Key identifies one month-hour bucket of a norm table.
type Key struct {
	Month time.Month
	Hour  int
}

// Table holds the mean expected generation in GW per month-hour bucket.
// Buckets without data are simply absent; a nil Table is a valid empty one.
type Table map[Key]float64

// Lookup returns the norm for a timestamp's month-hour bucket, 0 when the
// bucket is absent. The timestamp is interpreted in UTC.
func (t Table) Lookup(ts time.Time) float64 {
	u := ts.UTC()
	return t[Key{Month: u.Month(), Hour: u.Hour()}]
}

// tableBuilder accumulates forecast rows into per-bucket means.
type tableBuilder struct {
	sums   map[Key]float64
	counts map[Key]int
}

func newTableBuilder() *tableBuilder {
	return &tableBuilder{
		sums:   make(map[Key]float64),
		counts: make(map[Key]int),
	}
}

// add records one forecast row. The timestamp is normalized to UTC before
// bucketing.
func (b *tableBuilder) add(ts time.Time, powerGW float64) {
	u := ts.UTC()
	k := Key{Month: u.Month(), Hour: u.Hour()}
	b.sums[k] += powerGW
	b.counts[k]++
}

// rows returns how many forecast rows have been recorded.
func (b *tableBuilder) rows() int {
	total := 0
	for _, n := range b.counts {
		total += n
	}
	return total
}

// build averages the accumulated rows into a Table, nil when no rows were
// recorded.
func (b *tableBuilder) build() Table {
	if len(b.sums) == 0 {
		return nil
	}
	table := make(Table, len(b.sums))
	for k, sum := range b.sums {
		table[k] = sum / float64(b.counts[k])
	}
	return table
}
