package intent

import "strings"

// highIntentKeywords is the ordered keyword table signaling purchase, signup
// or channel-ownership intent. Kept as data so the table is independently
// testable; matching is case-insensitive substring.
var highIntentKeywords = []string{
	"sign up", "signup", "register", "try", "start", "interested",
	"want to", "i'd like", "i would like", "get started", "purchase",
	"buy", "subscribe", "join", "my channel", "my youtube", "my instagram",
	"for my", "i need", "ready to", "make a video", "create a video",
	"video for", "content for", "i want", "looking to",
}

// MatchHighIntent reports whether the text contains any high-intent keyword.
func MatchHighIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range highIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
