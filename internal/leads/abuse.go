package leads

import (
	"strings"
	"time"
)

// honeypotTripped reports whether the decoy "website" field was filled.
// Humans never see the field, so any value means an automated submission.
func honeypotTripped(r *SubscribeRequest) bool {
	return strings.TrimSpace(r.Website) != ""
}

// tooFast reports whether the form was submitted faster than a human
// plausibly could fill it. ts is epoch millis captured at form render; zero
// or negative means the client did not send one and the check is skipped.
// Negative elapsed time (client clock ahead of ours) is treated as too fast.
func tooFast(now time.Time, ts int64, min time.Duration) bool {
	if ts <= 0 {
		return false
	}
	return now.Sub(time.UnixMilli(ts)) < min
}
