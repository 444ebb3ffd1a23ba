package bitio

// growingSentinel is the ULEB128 value that escapes a growing-delta field
// into a signed correction, used when the next value isn't reachable via a
// small non-negative delta (including when it must actually decrease).
const growingSentinel = 0x0FFFFFFF // 268435455

// ReadRelative reads a signed leb128 delta and adds it to last.
func (s *Source) ReadRelative(last int64) (int64, error) {
	d, err := s.ReadLEB128()
	if err != nil {
		return 0, err
	}
	return last + d, nil
}

// ReadGrowing reads a uleb128 delta and adds it to last, unless the delta is
// the escape sentinel, in which case a signed leb128 correction follows.
func (s *Source) ReadGrowing(last int64) (int64, error) {
	d, err := s.ReadULEB128()
	if err != nil {
		return 0, err
	}
	if d == growingSentinel {
		d2, err := s.ReadLEB128()
		if err != nil {
			return 0, err
		}
		return last + d2, nil
	}
	return last + int64(d), nil
}

// ReadGrowingDatetime applies ReadGrowing to a running millisecond counter
// (since 0001-01-01 00:00:00 UTC) and returns the new counter value.
func (s *Source) ReadGrowingDatetime(lastMs int64) (int64, error) {
	return s.ReadGrowing(lastMs)
}
