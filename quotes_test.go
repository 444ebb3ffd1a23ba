package qsh

import "testing"

// TestReadQuotesDataDeleteOnZero covers scenario S6: a volume of 0 deletes a
// price that was never stored, leaving only the earlier non-zero entry.
func TestReadQuotesDataDeleteOnZero(t *testing.T) {
	record := concat(
		sleb(2),
		sleb(10), sleb(7), // price 10, volume 7
		sleb(5), sleb(0),  // price 15, volume 0 (delete of an absent key)
	)

	d := openFixture(t, StreamQuotes, oneStreamFrame(0, record))
	if _, err := d.ReadFrameHeader(); err != nil {
		t.Fatal(err)
	}

	snap, err := d.ReadQuotesData()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 1 || snap[10] != 7 {
		t.Fatalf("snapshot = %v, want {10:7}", snap)
	}
}

// TestReadQuotesDataDeleteThenReinstate covers property 9: deleting a price
// and later writing a non-zero volume at the same price reinstates it.
func TestReadQuotesDataDeleteThenReinstate(t *testing.T) {
	add := concat(sleb(1), sleb(50), sleb(7))
	del := concat(sleb(1), sleb(0), sleb(0))
	reinstate := concat(sleb(1), sleb(0), sleb(9))

	d := openFixture(t, StreamQuotes, concat(
		oneStreamFrame(0, add),
		oneStreamFrame(0, del),
		oneStreamFrame(0, reinstate),
	))

	if _, err := d.ReadFrameHeader(); err != nil {
		t.Fatal(err)
	}
	snap, err := d.ReadQuotesData()
	if err != nil || snap[50] != 7 {
		t.Fatalf("after add: snap=%v err=%v", snap, err)
	}

	if _, err := d.ReadFrameHeader(); err != nil {
		t.Fatal(err)
	}
	snap, err = d.ReadQuotesData()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := snap[50]; ok {
		t.Fatalf("after delete: snap=%v, want price 50 absent", snap)
	}

	if _, err := d.ReadFrameHeader(); err != nil {
		t.Fatal(err)
	}
	snap, err = d.ReadQuotesData()
	if err != nil || snap[50] != 9 {
		t.Fatalf("after reinstate: snap=%v err=%v", snap, err)
	}
}

// TestReadQuotesDataSnapshotIsDefensiveCopy covers the uniform defensive-
// copy contract §9 extends to the standalone quotes stream.
func TestReadQuotesDataSnapshotIsDefensiveCopy(t *testing.T) {
	first := concat(sleb(1), sleb(1), sleb(1))
	second := concat(sleb(1), sleb(1), sleb(2)) // price 2 (relative +1), volume 2

	d := openFixture(t, StreamQuotes, concat(oneStreamFrame(0, first), oneStreamFrame(0, second)))

	if _, err := d.ReadFrameHeader(); err != nil {
		t.Fatal(err)
	}
	snap1, err := d.ReadQuotesData()
	if err != nil {
		t.Fatal(err)
	}
	before := len(snap1)

	if _, err := d.ReadFrameHeader(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ReadQuotesData(); err != nil {
		t.Fatal(err)
	}

	if len(snap1) != before {
		t.Fatalf("earlier snapshot mutated: now has %d entries, had %d", len(snap1), before)
	}
}
