package transform

// DefaultSpeed is the pacing used when the caller does not pick one,
// in words per minute.
const DefaultSpeed = 300

// RSVPResult is the word sequence for rapid serial visual presentation.
type RSVPResult struct {
	Words []string `json:"words"`
	Speed int      `json:"speed"`
}

// RSVP splits text into words for one-at-a-time display. A nil speed
// selects DefaultSpeed; any other value is passed through unchanged.
func RSVP(text string, speed *int) RSVPResult {
	s := DefaultSpeed
	if speed != nil {
		s = *speed
	}

	words := splitWords(text)
	if words == nil {
		words = []string{}
	}

	return RSVPResult{
		Words: words,
		Speed: s,
	}
}
