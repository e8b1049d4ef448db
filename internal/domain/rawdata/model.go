package rawdata

// Document is one match as captured from the provider. MatchDetails and the
// PlayerStats values are provider-native JSON decoded into generic maps; they
// are only read by the transform step.
type Document struct {
	MatchID      string                    `json:"matchId"`
	MatchDetails map[string]any            `json:"matchDetails"`
	PlayerStats  map[string]map[string]any `json:"playerStats"`
}

// ProviderError returns the error flag the provider embeds in a failed
// matchDetails payload, or "" when there is none.
func (d Document) ProviderError() string {
	if d.MatchDetails == nil {
		return ""
	}
	switch v := d.MatchDetails["error"].(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "true"
		}
		return ""
	case string:
		return v
	case float64:
		if v != 0 {
			return "code"
		}
		return ""
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		return "present"
	default:
		return "present"
	}
}

// Usable reports whether the document carries error-free match details.
func (d Document) Usable() bool {
	return d.MatchDetails != nil && d.ProviderError() == ""
}
