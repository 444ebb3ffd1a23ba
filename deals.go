package qsh

import "github.com/nethask/qsh/internal/bitio"

// dealsState holds the per-instance last-value state for the standalone
// DEALS stream (distinct from the deal events derived from ORD_LOG).
type dealsState struct {
	lastMs      int64
	lastID      int64
	lastOrderID int64
	lastPrice   int64
	lastVolume  int64
	lastOI      int64
}

// ReadDealsData decodes one record from the DEALS stream.
func (d *Decoder) ReadDealsData() (DealEntry, error) {
	if err := d.checkStreamType(StreamDeals); err != nil {
		return DealEntry{}, err
	}

	st := &d.deals

	mask, err := d.src.ReadU8()
	if err != nil {
		return DealEntry{}, err
	}
	consumed := true

	entry := DealEntry{Type: DealType(mask & dealFlagType)}

	if mask&dealFlagDatetime != 0 {
		v, err := d.src.ReadGrowingDatetime(st.lastMs)
		if err != nil {
			return DealEntry{}, wrapEOS(err, consumed)
		}
		st.lastMs = v
	}
	if mask&dealFlagID != 0 {
		v, err := d.src.ReadGrowing(st.lastID)
		if err != nil {
			return DealEntry{}, wrapEOS(err, consumed)
		}
		st.lastID = v
	}
	if mask&dealFlagOrderID != 0 {
		v, err := d.src.ReadRelative(st.lastOrderID)
		if err != nil {
			return DealEntry{}, wrapEOS(err, consumed)
		}
		st.lastOrderID = v
	}
	if mask&dealFlagPrice != 0 {
		v, err := d.src.ReadRelative(st.lastPrice)
		if err != nil {
			return DealEntry{}, wrapEOS(err, consumed)
		}
		st.lastPrice = v
	}
	if mask&dealFlagVolume != 0 {
		v, err := d.src.ReadLEB128()
		if err != nil {
			return DealEntry{}, wrapEOS(err, consumed)
		}
		st.lastVolume = v
	}
	if mask&dealFlagOI != 0 {
		v, err := d.src.ReadRelative(st.lastOI)
		if err != nil {
			return DealEntry{}, wrapEOS(err, consumed)
		}
		st.lastOI = v
	}

	entry.ID = st.lastID
	entry.Timestamp = bitio.MillisToTime(st.lastMs)
	entry.OrderID = st.lastOrderID
	entry.Price = st.lastPrice
	entry.Volume = st.lastVolume
	entry.OI = st.lastOI

	return entry, nil
}
