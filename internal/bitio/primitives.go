package bitio

import (
	"encoding/binary"
	"math"
	"time"
)

// ReadU8 reads a single unsigned byte.
func (s *Source) ReadU8() (byte, error) {
	b, err := s.Read(1)
	if err != nil {
		return 0, err
	}
	v := b[0]
	s.Release(b)
	return v, nil
}

// ReadU16LE reads a fixed-width little-endian uint16.
func (s *Source) ReadU16LE() (uint16, error) {
	b, err := s.Read(2)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(b)
	s.Release(b)
	return v, nil
}

// ReadU32LE reads a fixed-width little-endian uint32.
func (s *Source) ReadU32LE() (uint32, error) {
	b, err := s.Read(4)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(b)
	s.Release(b)
	return v, nil
}

// ReadI64LE reads a fixed-width little-endian int64.
func (s *Source) ReadI64LE() (int64, error) {
	b, err := s.Read(8)
	if err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(b))
	s.Release(b)
	return v, nil
}

// ReadF64LE reads a fixed-width little-endian float64.
func (s *Source) ReadF64LE() (float64, error) {
	b, err := s.Read(8)
	if err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(b))
	s.Release(b)
	return v, nil
}

// ReadULEB128 reads a standard unsigned LEB128 varint: 7 payload bits per
// byte, continuation signalled by the 0x80 bit.
func (s *Source) ReadULEB128() (uint64, error) {
	var result uint64
	var shift uint

	for {
		b, err := s.ReadU8()
		if err != nil {
			return 0, err
		}

		result |= uint64(b&0x7F) << shift

		if b&0x80 == 0 {
			break
		}
		shift += 7
	}

	return result, nil
}

// ReadLEB128 reads a signed LEB128 varint, sign-extending using the
// terminating byte's 0x40 bit.
func (s *Source) ReadLEB128() (int64, error) {
	var result int64
	var shift uint
	var last byte

	for {
		b, err := s.ReadU8()
		if err != nil {
			return 0, err
		}
		last = b

		result |= int64(b&0x7F) << shift
		shift += 7

		if b&0x80 == 0 {
			break
		}
	}

	if last&0x40 != 0 {
		result |= -(int64(1) << shift)
	}

	return result, nil
}

// ReadString reads a uleb128 length followed by that many ASCII bytes.
func (s *Source) ReadString() (string, error) {
	length, err := s.ReadULEB128()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}

	b, err := s.Read(int(length))
	if err != nil {
		return "", err
	}
	str := string(b)
	s.Release(b)
	return str, nil
}

// qshEpoch is 0001-01-01 00:00:00 UTC, the origin for QSH's tick and
// millisecond counters.
var qshEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// ReadTimestampAbsolute reads an int64 count of 100-nanosecond ticks since
// 0001-01-01 00:00:00 UTC and returns the corresponding time, truncated to
// microsecond resolution (matching the source, which divides by 10).
func (s *Source) ReadTimestampAbsolute() (time.Time, error) {
	ticks, err := s.ReadI64LE()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMicro(ticks/10 + qshEpoch.UnixMicro()).UTC(), nil
}

// MillisToTime converts a millisecond offset from 0001-01-01 00:00:00 UTC
// into a time.Time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms + qshEpoch.UnixMilli()).UTC()
}

// TimeToMillis converts a time.Time back into milliseconds since
// 0001-01-01 00:00:00 UTC.
func TimeToMillis(t time.Time) int64 {
	return t.UnixMilli() - qshEpoch.UnixMilli()
}
