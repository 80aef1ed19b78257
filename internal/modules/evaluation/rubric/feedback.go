package rubric

import (
	"fmt"
	"strings"
)

// BlockedFeedback is Pearl's stock reply to a submission that failed the gate.
func BlockedFeedback(g GateResult) string {
	if g.WordCount < g.MinWords {
		return fmt.Sprintf("Cadet, this report is too short: %d of %d words. Add more detail and submit it again.", g.WordCount, g.MinWords)
	}
	return fmt.Sprintf("Good start, cadet. Work in more of this week's vocabulary before you submit. Try: %s.", strings.Join(g.VocabMissed, ", "))
}

// FallbackFeedback is used when the model could not score the submission.
func FallbackFeedback(used, target int) string {
	if target == 0 {
		return "Report received, cadet. Pearl could not review it in detail right now, so it has a provisional score."
	}
	return fmt.Sprintf("You used %d of %d target words. Pearl could not review the rest right now, so your report has a provisional score.", used, target)
}

const defaultFeedback = "Report received, cadet. Keep it up."
