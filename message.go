package qsh

// ReadMessageData decodes one record from the MESSAGES stream. As in
// OWN_TRADES, every field is always present and there is no availability
// mask; unlike OWN_TRADES, there is no last-value state.
func (d *Decoder) ReadMessageData() (Message, error) {
	if err := d.checkStreamType(StreamMessages); err != nil {
		return Message{}, err
	}

	ts, err := d.src.ReadTimestampAbsolute()
	if err != nil {
		return Message{}, err
	}
	typ, err := d.src.ReadU8()
	if err != nil {
		return Message{}, wrapEOS(err, true)
	}
	text, err := d.src.ReadString()
	if err != nil {
		return Message{}, wrapEOS(err, true)
	}

	return Message{Timestamp: ts, Type: MessageType(typ), Text: text}, nil
}
