package window

import (
	"fmt"
	"strings"
	"time"
)

// Phase defines the phase of a claim window relative to a point in time.
type Phase string

const (
	PhaseNotYetOpen Phase = "not_yet_open"
	PhaseOpen       Phase = "open"
	PhaseClosed     Phase = "closed"
	PhaseInvalid    Phase = "invalid"
)

// Variant is the display tone associated with a status label.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
)

// Status describes the state of a claim window at a given instant. Active is
// true only while the window is open; it gates claim eligibility.
type Status struct {
	Phase   Phase
	Label   string
	Variant Variant
	Active  bool
}

const zeroRemaining = "0 dk"

// ParseTimestamp parses a wire timestamp. Window bounds arrive as ISO-8601
// strings and are untrusted; callers treat a failure as the invalid phase.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// ComputeStatus derives the claim window phase from wall-clock time. The
// window is the half-open interval [start, end): now == start reports open
// and now == end reports closed. Results are never cached; callers re-invoke
// to observe transitions.
func ComputeStatus(now time.Time, start, end string) Status {
	startTime, startErr := ParseTimestamp(start)
	endTime, endErr := ParseTimestamp(end)

	if startErr != nil || endErr != nil {
		return Status{
			Phase:   PhaseInvalid,
			Label:   "Claim penceresi bilgisi bulunamadı.",
			Variant: VariantWarning,
			Active:  false,
		}
	}

	if !now.Before(endTime) {
		return Status{
			Phase:   PhaseClosed,
			Label:   "Claim penceresi sona erdi.",
			Variant: VariantWarning,
			Active:  false,
		}
	}

	if now.Before(startTime) {
		return Status{
			Phase:   PhaseNotYetOpen,
			Label:   fmt.Sprintf("Claim penceresi %s sonra açılacak.", formatDuration(startTime.Sub(now))),
			Variant: VariantInfo,
			Active:  false,
		}
	}

	return Status{
		Phase:   PhaseOpen,
		Label:   fmt.Sprintf("Claim penceresi açık! Kapanmasına %s kaldı.", formatDuration(endTime.Sub(now))),
		Variant: VariantSuccess,
		Active:  true,
	}
}

// FormatRemaining renders the time left until target as a compact string.
// Unparseable targets yield an empty string.
func FormatRemaining(target string, now time.Time) string {
	targetTime, err := ParseTimestamp(target)
	if err != nil {
		return ""
	}
	return formatDuration(targetTime.Sub(now))
}

// formatDuration decomposes a duration greedily into days, hours and minutes,
// emitting only non-zero units. Sub-minute durations fall back to a seconds
// count floored to at least 1; non-positive durations yield the zero token.
func formatDuration(diff time.Duration) string {
	if diff <= 0 {
		return zeroRemaining
	}

	days := diff / (24 * time.Hour)
	diff -= days * 24 * time.Hour
	hours := diff / time.Hour
	diff -= hours * time.Hour
	minutes := diff / time.Minute
	diff -= minutes * time.Minute

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dg", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dsa", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%ddk", minutes))
	}

	if len(parts) == 0 {
		seconds := diff / time.Second
		if seconds < 1 {
			seconds = 1
		}
		return fmt.Sprintf("%dsn", seconds)
	}

	return strings.Join(parts, " ")
}
