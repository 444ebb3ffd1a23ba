package qsh

// ReadOwnOrdersData decodes one record from the OWN_ORDERS stream. Unlike
// every other stream, its three value fields are plain (non-delta) leb128
// reads; there is no last-value state to carry across records. A DROP_ALL
// record carries no fields and decodes to (nil, nil).
func (d *Decoder) ReadOwnOrdersData() (*OwnOrder, error) {
	if err := d.checkStreamType(StreamOwnOrders); err != nil {
		return nil, err
	}

	mask, err := d.src.ReadU8()
	if err != nil {
		return nil, err
	}
	if mask&ownOrderDropAll != 0 {
		return nil, nil
	}

	orderID, err := d.src.ReadLEB128()
	if err != nil {
		return nil, wrapEOS(err, true)
	}
	price, err := d.src.ReadLEB128()
	if err != nil {
		return nil, wrapEOS(err, true)
	}
	amountRest, err := d.src.ReadLEB128()
	if err != nil {
		return nil, wrapEOS(err, true)
	}

	typ := OwnOrderRegular
	if mask&ownOrderStop != 0 {
		typ = OwnOrderStop
	}

	return &OwnOrder{
		Type:       typ,
		ID:         orderID,
		Price:      price,
		AmountRest: amountRest,
	}, nil
}
