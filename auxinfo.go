package qsh

import "github.com/nethask/qsh/internal/bitio"

// auxInfoState holds the per-instance last-value state for the standalone
// AUX_INFO stream.
type auxInfoState struct {
	lastMs       int64
	lastAskTotal int64
	lastBidTotal int64
	lastOI       int64
	lastPrice    int64
	lastHiLimit  int64
	lastLowLimit int64
	lastDeposit  float64
	lastRate     float64
}

// ReadAuxInfoData decodes one record from the AUX_INFO stream.
func (d *Decoder) ReadAuxInfoData() (AuxInfoEntry, error) {
	if err := d.checkStreamType(StreamAuxInfo); err != nil {
		return AuxInfoEntry{}, err
	}

	st := &d.auxInfo

	mask, err := d.src.ReadU8()
	if err != nil {
		return AuxInfoEntry{}, err
	}

	if mask&auxInfoDatetime != 0 {
		v, err := d.src.ReadGrowingDatetime(st.lastMs)
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastMs = v
	}
	if mask&auxInfoAskTotal != 0 {
		v, err := d.src.ReadRelative(st.lastAskTotal)
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastAskTotal = v
	}
	if mask&auxInfoBidTotal != 0 {
		v, err := d.src.ReadRelative(st.lastBidTotal)
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastBidTotal = v
	}
	if mask&auxInfoOI != 0 {
		v, err := d.src.ReadRelative(st.lastOI)
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastOI = v
	}
	if mask&auxInfoPrice != 0 {
		v, err := d.src.ReadRelative(st.lastPrice)
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastPrice = v
	}
	if mask&auxInfoSessionInfo != 0 {
		hi, err := d.src.ReadLEB128()
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		lo, err := d.src.ReadLEB128()
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		dep, err := d.src.ReadF64LE()
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastHiLimit = hi
		st.lastLowLimit = lo
		st.lastDeposit = dep
	}
	if mask&auxInfoRate != 0 {
		v, err := d.src.ReadF64LE()
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
		st.lastRate = v
	}

	var message string
	if mask&auxInfoMessage != 0 {
		message, err = d.src.ReadString()
		if err != nil {
			return AuxInfoEntry{}, wrapEOS(err, true)
		}
	}

	return AuxInfoEntry{
		Timestamp: bitio.MillisToTime(st.lastMs),
		Price:     st.lastPrice,
		AskTotal:  st.lastAskTotal,
		BidTotal:  st.lastBidTotal,
		OI:        st.lastOI,
		HiLimit:   st.lastHiLimit,
		LowLimit:  st.lastLowLimit,
		Deposit:   st.lastDeposit,
		Rate:      st.lastRate,
		Message:   message,
	}, nil
}
