package model

import (
	"strconv"
	"strings"
)

// ByteRange is a single parsed "bytes=start-end" range. End is inclusive and
// never past size-1; an open or suffix range ends at size-1.
type ByteRange struct {
	Start, End int64
}

// ParseRange parses a Range request header restricted to a single
// "bytes=start-end" / "bytes=start-" / "bytes=-suffixLength" range, which is
// all §4.6 step 6 requires. A missing header returns ok=false with no error;
// a malformed header is a 400 per §4.1.
func ParseRange(raw string, size int64) (ByteRange, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ByteRange{}, false, nil
	}
	const prefix = "bytes="
	if !strings.HasPrefix(raw, prefix) {
		return ByteRange{}, false, errMalformed("Range")
	}
	spec := strings.TrimPrefix(raw, prefix)
	if strings.Contains(spec, ",") {
		// multiple ranges are not required by the spec; treat as unsupported syntax.
		return ByteRange{}, false, errMalformed("Range")
	}
	startStr, endStr, _ := strings.Cut(spec, "-")
	if startStr == "" {
		// suffix range: last N bytes
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return ByteRange{}, false, errMalformed("Range")
		}
		start := size - n
		if start < 0 {
			start = 0
		}
		return ByteRange{Start: start, End: size - 1}, true, nil
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, false, errMalformed("Range")
	}
	if endStr == "" {
		return ByteRange{Start: start, End: size - 1}, true, nil
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return ByteRange{}, false, errMalformed("Range")
	}
	if end > size-1 {
		end = size - 1
	}
	return ByteRange{Start: start, End: end}, true, nil
}
