package http

import (
	"strings"

	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/utils/strcomp"
)

const rangeUnit = "bytes="

// RangeSpec is a parsed, but not yet resolved byte range. Resolving it requires the
// length of the resource, which is known only after the handler picked one.
type RangeSpec struct {
	Start, End       int64
	HasStart, HasEnd bool
}

// RangeTuple is a resolved range. Both offsets are inclusive.
type RangeTuple struct {
	Begin, End int64
}

func (t RangeTuple) Len() int64 {
	return t.End - t.Begin + 1
}

// ParseRange parses a single byte range: "bytes=start-end", "bytes=start-" or
// "bytes=-suffix". Other units and multiple ranges aren't supported and are reported
// as malformed.
func ParseRange(value string) (spec RangeSpec, err error) {
	value = strings.TrimSpace(value)
	if len(value) < len(rangeUnit) || !strcomp.EqualFold(value[:len(rangeUnit)], rangeUnit) {
		return spec, status.ErrBadRange
	}

	value = value[len(rangeUnit):]
	if strings.IndexByte(value, ',') != -1 {
		return spec, status.ErrBadRange
	}

	dash := strings.IndexByte(value, '-')
	if dash == -1 {
		return spec, status.ErrBadRange
	}

	start, end := strings.TrimSpace(value[:dash]), strings.TrimSpace(value[dash+1:])

	if len(start) > 0 {
		if spec.Start, err = parseOffset(start); err != nil {
			return spec, err
		}

		spec.HasStart = true
	}

	if len(end) > 0 {
		if spec.End, err = parseOffset(end); err != nil {
			return spec, err
		}

		spec.HasEnd = true
	}

	switch {
	case !spec.HasStart && !spec.HasEnd:
		return spec, status.ErrBadRange
	case !spec.HasStart && spec.End == 0:
		// suffix of zero bytes can't be satisfied
		return spec, status.ErrBadRange
	case spec.HasStart && spec.HasEnd && spec.Start > spec.End:
		return spec, status.ErrBadRange
	}

	return spec, nil
}

// Resolve computes the range against a resource of the given length. An explicit end
// past the resource is clamped to its last byte, as well as a suffix longer than the
// resource is clamped to the whole of it. A range starting at or past the end of the
// resource is invalid.
func (s RangeSpec) Resolve(length int64) (RangeTuple, error) {
	if length <= 0 {
		return RangeTuple{}, status.ErrBadRange
	}

	if !s.HasStart {
		suffix := min(s.End, length)
		return RangeTuple{Begin: length - suffix, End: length - 1}, nil
	}

	t := RangeTuple{Begin: s.Start, End: length - 1}
	if s.HasEnd && s.End < t.End {
		t.End = s.End
	}

	if t.Begin >= length || t.Begin > t.End {
		return RangeTuple{}, status.ErrBadRange
	}

	return t, nil
}

// maxOffsetDigits keeps offsets far below the int64 overflow.
const maxOffsetDigits = 18

func parseOffset(str string) (n int64, err error) {
	if len(str) > maxOffsetDigits {
		return 0, status.ErrBadRange
	}

	for i := 0; i < len(str); i++ {
		char := str[i]
		if char < '0' || char > '9' {
			return 0, status.ErrBadRange
		}

		n = n*10 + int64(char-'0')
	}

	return n, nil
}
