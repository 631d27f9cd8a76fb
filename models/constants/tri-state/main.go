package triState

import (
	"variome/api/models/constants"
)

// Three-valued verdict used by the concordance classifier. The zero
// value is Unknown ("not applicable"), deliberately distinct from any
// boolean so that combination rules stay exhaustively switchable.
const (
	Unknown constants.TriState = iota

	True
	False
)

// the export sentinel for a verdict that could not be determined
const UnknownSentinel = "-"

func FromBool(b bool) constants.TriState {
	if b {
		return True
	}
	return False
}

// Not is three-valued negation: Unknown stays Unknown.
func Not(ts constants.TriState) constants.TriState {
	switch ts {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func TriStateToString(ts constants.TriState) string {
	switch ts {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return UnknownSentinel
	}
}
