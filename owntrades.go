package qsh

import "github.com/nethask/qsh/internal/bitio"

// ownTradesState holds the per-instance last-value state for the
// OWN_TRADES stream.
type ownTradesState struct {
	lastMs      int64
	lastTradeID int64
	lastOrderID int64
	lastPrice   int64
}

// ReadOwnTradesData decodes one record from the OWN_TRADES stream. Like
// MESSAGES it carries no availability mask: every field is present on every
// record.
func (d *Decoder) ReadOwnTradesData() (OwnTrade, error) {
	if err := d.checkStreamType(StreamOwnTrades); err != nil {
		return OwnTrade{}, err
	}

	st := &d.ownTrades

	ms, err := d.src.ReadGrowingDatetime(st.lastMs)
	if err != nil {
		return OwnTrade{}, err
	}
	st.lastMs = ms

	tradeID, err := d.src.ReadRelative(st.lastTradeID)
	if err != nil {
		return OwnTrade{}, wrapEOS(err, true)
	}
	st.lastTradeID = tradeID

	orderID, err := d.src.ReadRelative(st.lastOrderID)
	if err != nil {
		return OwnTrade{}, wrapEOS(err, true)
	}
	st.lastOrderID = orderID

	price, err := d.src.ReadRelative(st.lastPrice)
	if err != nil {
		return OwnTrade{}, wrapEOS(err, true)
	}
	st.lastPrice = price

	volume, err := d.src.ReadLEB128()
	if err != nil {
		return OwnTrade{}, wrapEOS(err, true)
	}

	return OwnTrade{
		Timestamp: bitio.MillisToTime(st.lastMs),
		TradeID:   st.lastTradeID,
		OrderID:   st.lastOrderID,
		Price:     st.lastPrice,
		Volume:    volume,
	}, nil
}
