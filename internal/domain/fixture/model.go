package fixture

import (
	"regexp"
	"strings"
)

// RowStatus is the state of a match as shown on a fixture-list row.
type RowStatus string

const (
	RowStatusCompleted      RowStatus = "COMPLETED"
	RowStatusLiveOrHalftime RowStatus = "LIVE_OR_HALFTIME"
	RowStatusScheduled      RowStatus = "SCHEDULED"
	RowStatusUnknown        RowStatus = "UNKNOWN"
)

const finishedToken = "FT"

var (
	liveTokenRegex = regexp.MustCompile(`\b(LIVE|HT)\b`)
	clockRegex     = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	scoreRegex     = regexp.MustCompile(`\d+\s*-\s*\d+`)
)

// Row is one entry of a round's fixture list.
type Row struct {
	Text string
	Href string
}

// ClassifyRowText decides the status of a fixture row from its visible text.
// Rules are ordered and the first match wins. LIVE and HT must be standalone
// words so team names containing them do not count.
func ClassifyRowText(text string) RowStatus {
	switch {
	case strings.Contains(strings.ToUpper(text), finishedToken):
		return RowStatusCompleted
	case liveTokenRegex.MatchString(strings.ToUpper(text)):
		return RowStatusLiveOrHalftime
	case clockRegex.MatchString(text):
		return RowStatusScheduled
	case scoreRegex.MatchString(text):
		// a bare score with no other signal means the match is over
		return RowStatusCompleted
	default:
		return RowStatusUnknown
	}
}

func (s RowStatus) IsCompleted() bool {
	return s == RowStatusCompleted
}
