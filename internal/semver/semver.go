// Package semver parses and orders semantic versions following the
// https://semver.org precedence rules.
//
// Missing minor and patch components default to zero, so "2" and "2.3" are
// accepted and read as "2.0.0" and "2.3.0".
package semver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a string is not a valid semantic version.
var ErrInvalidVersion = errors.New("invalid semantic version")

var (
	// Oldest is the lowest possible version, used as the default lower bound.
	Oldest = Version{}
	// Newest is the highest possible version, used as the default upper bound.
	Newest = Version{Major: math.MaxUint64, Minor: math.MaxUint64, Patch: math.MaxUint64}
)

// Version is a parsed semantic version.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease []string
	Build      []string
}

// Parse parses a MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD] string.
func Parse(s string) (Version, error) {
	preStart := strings.IndexByte(s, '-')
	buildStart := strings.IndexByte(s, '+')

	coreEnd := len(s)
	if preStart >= 0 {
		coreEnd = preStart
	}
	if buildStart >= 0 && buildStart < coreEnd {
		coreEnd = buildStart
	}

	// A hyphen after the plus sign is part of the build metadata.
	var prerelease, build []string
	if preStart >= 0 && (buildStart < 0 || preStart < buildStart) {
		end := len(s)
		if buildStart >= 0 {
			end = buildStart
		}
		prerelease = splitIdentifiers(s[preStart+1 : end])
	}
	if buildStart >= 0 {
		build = splitIdentifiers(s[buildStart+1:])
	}

	core := strings.SplitN(s[:coreEnd], ".", 3)
	nums := make([]uint64, 3)
	for i, c := range core {
		if !IsNumericIdentifier(c) {
			return Version{}, fmt.Errorf("%q: invalid version core component %q: %w", s, c, ErrInvalidVersion)
		}
		n, err := strconv.ParseUint(c, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("%q: version core component %q out of range: %w", s, c, ErrInvalidVersion)
		}
		nums[i] = n
	}

	for _, id := range prerelease {
		if !IsPrereleaseIdentifier(id) {
			return Version{}, fmt.Errorf("%q: invalid prerelease identifier %q: %w", s, id, ErrInvalidVersion)
		}
	}
	for _, id := range build {
		if !IsAlphanumericIdentifier(id) {
			return Version{}, fmt.Errorf("%q: invalid build identifier %q: %w", s, id, ErrInvalidVersion)
		}
	}

	return Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: prerelease,
		Build:      build,
	}, nil
}

// MustParse is like Parse but panics if the version is not valid.
// It's meant for version literals in task definitions.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func splitIdentifiers(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ".") {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// String returns the canonical representation of the version.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	if len(v.Prerelease) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Prerelease, "."))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// Equal reports whether both versions have the same precedence. Build
// metadata is ignored.
func (v Version) Equal(o Version) bool { return Compare(v, o) == 0 }

// Less reports whether v has lower precedence than o.
func (v Version) Less(o Version) bool { return Compare(v, o) < 0 }

// InRange reports whether v is inside the inclusive [from, to] window.
func (v Version) InRange(from, to Version) bool {
	return Compare(from, v) <= 0 && Compare(v, to) <= 0
}

// Compare returns -1, 0 or +1 depending on the precedence of a and b.
func Compare(a, b Version) int {
	if c := compareUint(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareUint(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := compareUint(a.Patch, b.Patch); c != 0 {
		return c
	}

	// A release has higher precedence than any of its prereleases.
	switch {
	case len(a.Prerelease) == 0 && len(b.Prerelease) == 0:
		return 0
	case len(a.Prerelease) == 0:
		return 1
	case len(b.Prerelease) == 0:
		return -1
	}

	for i := 0; i < len(a.Prerelease) && i < len(b.Prerelease); i++ {
		if c := compareIdentifier(a.Prerelease[i], b.Prerelease[i]); c != 0 {
			return c
		}
	}

	return compareUint(uint64(len(a.Prerelease)), uint64(len(b.Prerelease)))
}

func compareIdentifier(a, b string) int {
	if a == b {
		return 0
	}

	aNum, bNum := isDigits(a), isDigits(b)
	switch {
	case aNum && bNum:
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return compareUint(uint64(len(a)), uint64(len(b)))
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalText satisfies encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
