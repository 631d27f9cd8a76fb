package leaning

import (
	"variome/api/models/constants"
)

// Direction a classified significance term leans. Neither covers terms
// absent from the vocabulary in play.
const (
	Neither constants.Leaning = iota

	Positive // pathogenic-leaning
	Negative // benign-leaning
)

func LeaningToString(l constants.Leaning) string {
	switch l {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neither"
	}
}
