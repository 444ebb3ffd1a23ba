package qsh

import "fmt"

// quotesState holds the per-instance last-value state for the standalone
// QUOTES stream: a running price, and the dict built up across records.
type quotesState struct {
	lastPrice int64
	dict      QuotesSnapshot
}

// ReadQuotesData decodes one record from the QUOTES stream: a repeated
// sequence of (relative price, leb128 volume) pairs applied to a running
// dict, where volume==0 deletes the price. Returns a defensive copy.
func (d *Decoder) ReadQuotesData() (QuotesSnapshot, error) {
	if err := d.checkStreamType(StreamQuotes); err != nil {
		return nil, err
	}

	st := &d.quotes

	count, err := d.src.ReadLEB128()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("qsh: quotes record with negative count %d", count)
	}

	for i := int64(0); i < count; i++ {
		price, err := d.src.ReadRelative(st.lastPrice)
		if err != nil {
			return nil, wrapEOS(err, true)
		}
		st.lastPrice = price

		volume, err := d.src.ReadLEB128()
		if err != nil {
			return nil, wrapEOS(err, true)
		}

		if volume == 0 {
			delete(st.dict, price)
		} else {
			st.dict[price] = volume
		}
	}

	return st.dict.Clone(), nil
}
