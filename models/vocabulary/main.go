package vocabulary

import (
	"strings"

	c "variome/api/models/constants"
	"variome/api/models/constants/leaning"
	"variome/api/models/constants/source"
)

// Check selects which pair of term lists applies. The discordance
// lists are a strict subset of the consistency lists: uncertain and
// unclassified calls count toward inconsistency but can never create a
// genuine conflict on their own.
type Check int

const (
	Consistency Check = iota
	Discordance
)

var positiveTerms = []string{
	"pathogenic",
	"likely pathogenic",
	"+",
	"+?",
}

var consistencyNegativeTerms = []string{
	"benign",
	"likely benign",
	"unclassified",
	"uncertain",
	"-",
	"-?",
	"?",
	".",
}

var discordanceNegativeTerms = []string{
	"benign",
	"likely benign",
	"-",
	"-?",
	".",
}

// Classify maps one raw assessment term from the given source onto a
// leaning for the given check. LOVD terms are compound
// ("<method>/<curator-call>"); only the curator call is classified.
// Terms found in neither list classify as Neither -- a deliberate
// tolerance for vocabulary drift upstream.
func Classify(check Check, sourceName string, rawTerm string) c.Leaning {
	term := strings.ToLower(strings.TrimSpace(rawTerm))

	if sourceName == source.Lovd {
		if slashIndex := strings.Index(term, "/"); slashIndex != -1 {
			term = term[slashIndex+1:]
		}
	}

	if termInList(term, positiveTerms) {
		return leaning.Positive
	}

	negativeTerms := consistencyNegativeTerms
	if check == Discordance {
		negativeTerms = discordanceNegativeTerms
	}
	if termInList(term, negativeTerms) {
		return leaning.Negative
	}

	return leaning.Neither
}

func termInList(term string, list []string) bool {
	for _, t := range list {
		if t == term {
			return true
		}
	}
	return false
}
