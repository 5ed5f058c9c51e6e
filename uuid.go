package uuidcreator

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUID is a 128-bit identifier in RFC 4122 byte order.
//
// Time-based field layout (version 1):
//   - time_low: bytes 0-3, low 32 bits of the timestamp
//   - time_mid: bytes 4-5, next 16 bits
//   - time_hi_and_version: bytes 6-7, version nibble + top 12 bits
//   - clock_seq_hi_and_variant, clock_seq_low: bytes 8-9, variant 10 + 14-bit clock sequence
//   - node: bytes 10-15
//
// The sequential layout (version 6) stores the timestamp most significant
// bits first instead; see LayoutSequential.
type UUID [16]byte

// Nil is the UUID with all bits zero.
var Nil UUID

// Version identifies the generation scheme stored in bits 48-51.
type Version int

const (
	VersionTimeBased     Version = 1
	VersionDCESecurity   Version = 2
	VersionNameBasedMD5  Version = 3
	VersionRandom        Version = 4
	VersionNameBasedSHA1 Version = 5
	VersionSequential    Version = 6
)

// String returns a short name of the version.
func (v Version) String() string {
	switch v {
	case VersionTimeBased:
		return "time-based"
	case VersionDCESecurity:
		return "dce-security"
	case VersionNameBasedMD5:
		return "name-based-md5"
	case VersionRandom:
		return "random"
	case VersionNameBasedSHA1:
		return "name-based-sha1"
	case VersionSequential:
		return "sequential"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// String returns the canonical string representation of the UUID.
func (u UUID) String() string {
	var buf [36]byte
	hex.Encode(buf[:8], u[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], u[10:16])
	return string(buf[:])
}

// Bytes returns a copy of the raw byte representation of the UUID
func (u UUID) Bytes() []byte {
	result := make([]byte, 16)
	copy(result, u[:])
	return result
}

// Version returns the UUID version stored in bits 48-51.
func (u UUID) Version() Version {
	return Version(u[6] >> 4)
}

// Variant returns the UUID variant as defined in RFC 4122 Section 4.1.1.
// - 0xxxxxxx → Variant 0 (NCS backward compatibility)
// - 10xxxxxx → Variant 2 (RFC 4122)
// - 110xxxxx → Variant 6 (Microsoft reserved)
// - 111xxxxx → Variant 7 (Future use)
func (u UUID) Variant() int {
	switch {
	case (u[8] & 0x80) == 0x00:
		return 0
	case (u[8] & 0xC0) == 0x80:
		return 2
	case (u[8] & 0xE0) == 0xC0:
		return 6
	default:
		return 7
	}
}

// IsRFC4122 reports whether the UUID carries the RFC 4122 variant and one
// of the versions this package generates.
func (u UUID) IsRFC4122() bool {
	v := u.Version()
	return u.Variant() == 2 && v >= VersionTimeBased && v <= VersionSequential
}

// Compare compares two UUIDs lexicographically.
// Returns -1 if u < other, 0 if u == other, 1 if u > other.
//
// Only sequential UUIDs sort in generation order; time-based UUIDs put the
// low timestamp bits first.
func (u UUID) Compare(other UUID) int {
	for i := 0; i < 16; i++ {
		if u[i] < other[i] {
			return -1
		}
		if u[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Equal checks if two UUIDs are equal
func (u UUID) Equal(other UUID) bool {
	return u == other
}

// IsNil checks if the UUID is nil (all zeros)
func (u UUID) IsNil() bool {
	return u == Nil
}

// Google converts the UUID to github.com/google/uuid's type.
func (u UUID) Google() uuid.UUID {
	return uuid.UUID(u)
}

// FromGoogle converts a github.com/google/uuid value.
func FromGoogle(g uuid.UUID) UUID {
	return UUID(g)
}

// MarshalText implements encoding.TextMarshaler for JSON and other text formats
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON and other text formats
func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (u UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (u *UUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Value implements driver.Valuer, storing the canonical string.
func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Scan implements sql.Scanner for string and 16-byte values.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = Nil
		return nil
	case string:
		return u.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 16 {
			copy(u[:], v)
			return nil
		}
		return u.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidUUIDFormat, value)
	}
}

// Parse decodes the canonical form and the other forms
// github.com/google/uuid accepts (urn:uuid: prefix, braces, no hyphens).
func Parse(s string) (UUID, error) {
	g, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("%w: %w", ErrInvalidUUIDFormat, err)
	}
	return FromGoogle(g), nil
}

// MustParse parses a UUID string and panics on error
func MustParse(s string) UUID {
	u, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("uuidcreator: %v", err))
	}
	return u
}

// ValidateOrdering checks that a slice of UUIDs is strictly increasing
// lexicographically.
func ValidateOrdering(uuids []UUID) error {
	for i := 1; i < len(uuids); i++ {
		if uuids[i].Compare(uuids[i-1]) <= 0 {
			return fmt.Errorf("ordering violation at index %d: %s <= %s", i, uuids[i].String(), uuids[i-1].String())
		}
	}
	return nil
}
