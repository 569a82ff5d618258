package filter

import (
	"strings"
	"time"
)

const bulletMarker = "•"

// MergeMessages combines two messages into bullet points of a single
// message. An empty side or two identical sides collapse to one message;
// otherwise both are kept as bullets separated by a blank line.
func MergeMessages(m1, m2 string) string {
	switch {
	case m1 == "" && m2 == "":
		return ""
	case m1 == "" || m1 == m2:
		return m2
	case m2 == "":
		return m1
	}

	if !strings.HasPrefix(m1, bulletMarker) {
		m1 = bulletMarker + " " + m1
	}
	if !strings.HasPrefix(m2, bulletMarker) {
		m2 = bulletMarker + " " + m2
	}
	return m1 + "\n\n" + m2
}

// MergeDurations returns the larger of two durations. A nil duration means
// permanent and dominates any finite duration.
func MergeDurations(d1, d2 *time.Duration) *time.Duration {
	if d1 == nil || d2 == nil {
		return nil
	}
	if *d1 >= *d2 {
		return d1
	}
	return d2
}
