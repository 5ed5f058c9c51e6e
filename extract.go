package uuidcreator

import (
	"fmt"
	"time"

	"github.com/dombox/uuidcreator/timestamp"
)

// ExtractTimestamp returns the 60-bit timestamp of a version 1 or
// version 6 UUID.
func ExtractTimestamp(u UUID) (uint64, error) {
	if u.Variant() != 2 {
		return 0, fmt.Errorf("%w: variant %d", ErrNotTimeBased, u.Variant())
	}

	switch u.Version() {
	case VersionTimeBased:
		return uint64(u[6]&0x0F)<<56 |
			uint64(u[7])<<48 |
			uint64(u[4])<<40 |
			uint64(u[5])<<32 |
			uint64(u[0])<<24 |
			uint64(u[1])<<16 |
			uint64(u[2])<<8 |
			uint64(u[3]), nil
	case VersionSequential:
		return uint64(u[0])<<52 |
			uint64(u[1])<<44 |
			uint64(u[2])<<36 |
			uint64(u[3])<<28 |
			uint64(u[4])<<20 |
			uint64(u[5])<<12 |
			uint64(u[6]&0x0F)<<8 |
			uint64(u[7]), nil
	default:
		return 0, fmt.Errorf("%w: version %d", ErrNotTimeBased, u.Version())
	}
}

// ExtractInstant returns the instant encoded in a version 1 or version 6
// UUID. It is the exact inverse of generation with a fixed instant.
func ExtractInstant(u UUID) (time.Time, error) {
	ts, err := ExtractTimestamp(u)
	if err != nil {
		return time.Time{}, err
	}
	return timestamp.ToTime(ts), nil
}

// ExtractClockSequence returns the 14-bit clock sequence of a time-ordered
// UUID.
func ExtractClockSequence(u UUID) (uint16, error) {
	if _, err := ExtractTimestamp(u); err != nil {
		return 0, err
	}
	return uint16(u[8]&0x3F)<<8 | uint16(u[9]), nil
}

// ExtractNodeIdentifier returns the 48-bit node of a time-ordered or DCE
// security UUID.
func ExtractNodeIdentifier(u UUID) (uint64, error) {
	if u.Version() != VersionDCESecurity || u.Variant() != 2 {
		if _, err := ExtractTimestamp(u); err != nil {
			return 0, err
		}
	}
	var node uint64
	for _, b := range u[10:16] {
		node = node<<8 | uint64(b)
	}
	return node, nil
}

// ExtractDCESecurity returns the local domain and identifier of a version 2
// UUID.
func ExtractDCESecurity(u UUID) (Domain, uint32, error) {
	if u.Version() != VersionDCESecurity || u.Variant() != 2 {
		return 0, 0, fmt.Errorf("%w: want %d, got %d", ErrWrongVersion, VersionDCESecurity, u.Version())
	}
	id := uint32(u[0])<<24 | uint32(u[1])<<16 | uint32(u[2])<<8 | uint32(u[3])
	return Domain(u[9]), id, nil
}

// Time returns the instant of a time-ordered UUID.
func (u UUID) Time() (time.Time, error) {
	return ExtractInstant(u)
}
