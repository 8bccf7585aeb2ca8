package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Version is a parsed semantic version. The zero value is not a valid
// version; always obtain one through Parse.
type Version struct {
	raw        string
	parts      []int
	preRelease []string
	buildMeta  []string
}

// Parts returns the numeric core parts (1 to 3 entries).
func (v Version) Parts() []int { return v.parts }

// PreRelease returns the pre-release identifiers, nil when absent.
func (v Version) PreRelease() []string { return v.preRelease }

// BuildMeta returns the build-metadata identifiers, nil when absent.
func (v Version) BuildMeta() []string { return v.buildMeta }

// String returns the original raw string.
func (v Version) String() string { return v.raw }

// Parse validates raw against the targeting version grammar and returns
// its parsed form. All failures satisfy errors.Is(err, ErrInvalidVersion)
// except the empty string, which yields ErrEmptyVersion.
func Parse(raw string) (Version, error) {
	if raw == "" {
		return Version{}, ErrEmptyVersion
	}
	if strings.ContainsFunc(raw, unicode.IsSpace) {
		return Version{}, errors.Join(ErrInvalidVersion, fmt.Errorf("whitespace in %q", raw))
	}

	v := Version{raw: raw, parts: make([]int, 0, 3)}

	pos := 0
	for n := 0; n < 3; n++ {
		start := pos
		for pos < len(raw) && isDigit(raw[pos]) {
			pos++
		}
		size := pos - start
		if size == 0 {
			return Version{}, errors.Join(ErrInvalidVersion, fmt.Errorf("empty core part at offset %d in %q", start, raw))
		}
		if raw[start] == '0' && size > 1 {
			return Version{}, errors.Join(ErrInvalidVersion, fmt.Errorf("leading zero in core part %q", raw[start:pos]))
		}
		n, err := strconv.Atoi(raw[start:pos])
		if err != nil {
			return Version{}, errors.Join(ErrInvalidVersion, err)
		}
		v.parts = append(v.parts, n)

		if pos < len(raw) && raw[pos] == '.' {
			pos++
		} else {
			break
		}
	}
	if pos == len(raw) {
		return v, nil
	}

	switch raw[pos] {
	case '-':
		if len(v.parts) < 3 {
			return Version{}, errors.Join(ErrInvalidVersion, fmt.Errorf("pre-release tag on short core %q", raw))
		}
		pre, meta, err := scanPreRelease(raw, pos+1)
		if err != nil {
			return Version{}, err
		}
		v.preRelease, v.buildMeta = pre, meta
	case '+':
		if len(v.parts) < 3 {
			return Version{}, errors.Join(ErrInvalidVersion, fmt.Errorf("build metadata on short core %q", raw))
		}
		meta, err := scanBuildMeta(raw, pos+1)
		if err != nil {
			return Version{}, err
		}
		v.buildMeta = meta
	default:
		return Version{}, errors.Join(ErrInvalidVersion, fmt.Errorf("unexpected character %q at offset %d in %q", raw[pos], pos, raw))
	}
	return v, nil
}

// scanPreRelease consumes dot-separated pre-release identifiers starting at
// pos and, when a '+' terminator appears, the build-metadata identifiers
// after it. Digits-only identifiers must not carry a leading zero.
func scanPreRelease(raw string, pos int) (pre, meta []string, err error) {
	for {
		ident, next, err := scanIdentifier(raw, pos)
		if err != nil {
			return nil, nil, err
		}
		if len(ident) > 1 && ident[0] == '0' && allDigits(ident) {
			return nil, nil, errors.Join(ErrInvalidVersion, fmt.Errorf("leading zero in numeric pre-release identifier %q", ident))
		}
		pre = append(pre, ident)

		if next == len(raw) {
			return pre, nil, nil
		}
		switch raw[next] {
		case '.':
			pos = next + 1
		case '+':
			meta, err = scanBuildMeta(raw, next+1)
			if err != nil {
				return nil, nil, err
			}
			return pre, meta, nil
		default:
			return nil, nil, errors.Join(ErrInvalidVersion, fmt.Errorf("unexpected character %q at offset %d in %q", raw[next], next, raw))
		}
	}
}

// scanBuildMeta consumes dot-separated build-metadata identifiers until end
// of input. A second '+' is not part of the identifier character class and
// therefore rejects the whole string.
func scanBuildMeta(raw string, pos int) ([]string, error) {
	var meta []string
	for {
		ident, next, err := scanIdentifier(raw, pos)
		if err != nil {
			return nil, err
		}
		meta = append(meta, ident)

		if next == len(raw) {
			return meta, nil
		}
		if raw[next] != '.' {
			return nil, errors.Join(ErrInvalidVersion, fmt.Errorf("unexpected character %q at offset %d in %q", raw[next], next, raw))
		}
		pos = next + 1
	}
}

// scanIdentifier consumes one non-empty [0-9A-Za-z-]+ run starting at pos.
func scanIdentifier(raw string, pos int) (string, int, error) {
	next := pos
	for next < len(raw) && isIdentChar(raw[next]) {
		next++
	}
	if next == pos {
		return "", 0, errors.Join(ErrInvalidVersion, fmt.Errorf("empty identifier at offset %d in %q", pos, raw))
	}
	return raw[pos:next], next, nil
}

// Compare orders actual against target and reports -1, 0 or 1.
//
// The comparison is deliberately asymmetric, because the target side comes
// from a targeting condition:
//
//   - Core parts are compared pairwise over the target's parts. A target
//     with fewer parts than the actual is a prefix wildcard and compares
//     equal once the common parts match; an actual with fewer parts than
//     the target compares less.
//   - With equal cores, a pre-release on the target side only makes the
//     actual greater; a pre-release on the actual side only makes it less.
//   - When both carry pre-release identifiers they are compared pairwise
//     as ASCII strings over the target's identifiers.
//   - Build metadata never participates.
func Compare(actual, target Version) int {
	for i, tp := range target.parts {
		if i >= len(actual.parts) {
			return -1
		}
		if actual.parts[i] != tp {
			if actual.parts[i] < tp {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(target.preRelease) > 0 && len(actual.preRelease) == 0:
		return 1
	case len(actual.preRelease) > 0 && len(target.preRelease) == 0:
		return -1
	}

	for i, tid := range target.preRelease {
		if i >= len(actual.preRelease) {
			return -1
		}
		if c := strings.Compare(actual.preRelease[i], tid); c != 0 {
			return c
		}
	}
	return 0
}

// CompareRaw parses both operands and compares them. An empty target
// degenerates to "equal" without parsing the actual, which is how absent
// condition operands behave.
func CompareRaw(actual, target string) (int, error) {
	if target == "" {
		return 0, nil
	}
	tv, err := Parse(target)
	if err != nil {
		return 0, err
	}
	av, err := Parse(actual)
	if err != nil {
		return 0, err
	}
	return Compare(av, tv), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
