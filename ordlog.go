package qsh

import "github.com/nethask/qsh/internal/bitio"

// ordLogState holds the per-instance last-value state for the ORD_LOG
// stream, including the reconstructed order book (§3's OrdLog bundle).
type ordLogState struct {
	lastExchangeMs      int64
	lastOrderID         int64
	lastOrderPrice      int64
	lastAmount          int64
	lastOrderAmountRest int64
	lastDealID          int64
	lastDealPrice       int64
	lastOIAfterDeal     int64
	lastPushedDealID    int64

	quotes         QuotesSnapshot // internal book, mutated in place
	externalQuotes QuotesSnapshot // last snapshot handed to a caller
}

// ReadOrdLogData decodes one ord-log record and runs it through the
// order-book reconstructor, returning the primary entry, whatever derived
// aux-info snapshot and deal event this record produced, and the quotes
// snapshot taken at the most recent END_OF_TRANSACTION record (empty until
// the first one).
func (d *Decoder) ReadOrdLogData() (OrdLogEntry, *AuxInfoEntry, QuotesSnapshot, *DealEntry, error) {
	if err := d.checkStreamType(StreamOrdLog); err != nil {
		return OrdLogEntry{}, nil, nil, nil, err
	}

	entry, err := d.decodeOrdLogEntry()
	if err != nil {
		return OrdLogEntry{}, nil, nil, nil, err
	}

	aux, deal := d.applyOrdLogToBook(entry)
	return entry, aux, d.ordLog.externalQuotes, deal, nil
}

func (d *Decoder) decodeOrdLogEntry() (OrdLogEntry, error) {
	st := &d.ordLog

	mask, err := d.src.ReadU8()
	if err != nil {
		return OrdLogEntry{}, err
	}
	actionBits, err := d.src.ReadU16LE()
	if err != nil {
		return OrdLogEntry{}, wrapEOS(err, true)
	}
	actions := ActionFlag(actionBits)
	isAdd := actions.has(ActionAdd)
	isFill := actions.has(ActionFill)

	if mask&ordLogDatetime != 0 {
		ms, err := d.src.ReadGrowingDatetime(st.lastExchangeMs)
		if err != nil {
			return OrdLogEntry{}, wrapEOS(err, true)
		}
		st.lastExchangeMs = ms
	}

	var orderID int64
	switch {
	case mask&ordLogOrderID == 0:
		orderID = st.lastOrderID
	case isAdd:
		v, err := d.src.ReadGrowing(st.lastOrderID)
		if err != nil {
			return OrdLogEntry{}, wrapEOS(err, true)
		}
		st.lastOrderID = v
		orderID = v
	default:
		// Relative delta off the running base, but the base itself is
		// not advanced: the next add (or absent-bit record) still sees
		// the order_id from before this record.
		v, err := d.src.ReadRelative(st.lastOrderID)
		if err != nil {
			return OrdLogEntry{}, wrapEOS(err, true)
		}
		orderID = v
	}

	if mask&ordLogOrderPrice != 0 {
		v, err := d.src.ReadRelative(st.lastOrderPrice)
		if err != nil {
			return OrdLogEntry{}, wrapEOS(err, true)
		}
		st.lastOrderPrice = v
	}

	if mask&ordLogAmount != 0 {
		v, err := d.src.ReadLEB128()
		if err != nil {
			return OrdLogEntry{}, wrapEOS(err, true)
		}
		st.lastAmount = v
	}

	var amountRest, dealID, dealPrice, oiAfterDeal int64
	if isFill {
		if mask&ordLogOrderAmountRest != 0 {
			v, err := d.src.ReadLEB128()
			if err != nil {
				return OrdLogEntry{}, wrapEOS(err, true)
			}
			st.lastOrderAmountRest = v
		}
		if mask&ordLogDealID != 0 {
			v, err := d.src.ReadGrowing(st.lastDealID)
			if err != nil {
				return OrdLogEntry{}, wrapEOS(err, true)
			}
			st.lastDealID = v
		}
		if mask&ordLogDealPrice != 0 {
			v, err := d.src.ReadRelative(st.lastDealPrice)
			if err != nil {
				return OrdLogEntry{}, wrapEOS(err, true)
			}
			st.lastDealPrice = v
		}
		if mask&ordLogOIAfterDeal != 0 {
			v, err := d.src.ReadRelative(st.lastOIAfterDeal)
			if err != nil {
				return OrdLogEntry{}, wrapEOS(err, true)
			}
			st.lastOIAfterDeal = v
		}
		amountRest = st.lastOrderAmountRest
		dealID = st.lastDealID
		dealPrice = st.lastDealPrice
		oiAfterDeal = st.lastOIAfterDeal
	} else if isAdd {
		amountRest = st.lastAmount
	}

	return OrdLogEntry{
		ActionsMask:     actions,
		ExchangeTime:    bitio.MillisToTime(st.lastExchangeMs),
		ExchangeOrderID: orderID,
		OrderPrice:      st.lastOrderPrice,
		Amount:          st.lastAmount,
		AmountRest:      amountRest,
		DealID:          dealID,
		DealPrice:       dealPrice,
		OIAfterDeal:     oiAfterDeal,
	}, nil
}

// applyOrdLogToBook runs the order-book reconstructor described in §4.7,
// as a side effect of a just-decoded OrdLogEntry.
func (d *Decoder) applyOrdLogToBook(e OrdLogEntry) (*AuxInfoEntry, *DealEntry) {
	st := &d.ordLog
	actions := e.ActionsMask
	isAdd := actions.has(ActionAdd)
	isBuy := actions.has(ActionBuy)
	isSell := actions.has(ActionSell)

	if actions.has(ActionFlowStart) {
		st.quotes = make(QuotesSnapshot)
	}

	var aux *AuxInfoEntry

	if (isBuy != isSell) && !actions.has(ActionNonSystem) && !actions.has(ActionNonZeroReplAct) {
		q := st.quotes[e.OrderPrice]
		increase := isSell == isAdd
		if increase {
			q += e.Amount
		} else {
			q -= e.Amount
		}
		if q == 0 {
			delete(st.quotes, e.OrderPrice)
		} else {
			st.quotes[e.OrderPrice] = q
		}

		if actions.has(ActionEndOfTransaction) {
			st.externalQuotes = st.quotes.Clone()

			var askTotal, bidTotal int64
			for _, v := range st.quotes {
				if v > 0 {
					askTotal += v
				} else {
					bidTotal -= v
				}
			}

			aux = &AuxInfoEntry{
				Timestamp: e.ExchangeTime,
				Price:     st.lastDealPrice,
				AskTotal:  askTotal,
				BidTotal:  bidTotal,
				OI:        st.lastOIAfterDeal,
			}
		}

		var deal *DealEntry
		if e.DealID > st.lastPushedDealID {
			st.lastPushedDealID = e.DealID
			dealType := DealBuy
			if isSell {
				dealType = DealSell
			}
			deal = &DealEntry{
				Type:      dealType,
				ID:        e.DealID,
				Timestamp: e.ExchangeTime,
				Price:     e.DealPrice,
				Volume:    e.Amount,
				OI:        e.OIAfterDeal,
			}
		}

		return aux, deal
	}

	return aux, nil
}
