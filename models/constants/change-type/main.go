package changeType

import (
	"fmt"
	"strings"

	"variome/api/models/constants"
)

const (
	Unknown constants.ChangeType = iota

	Added
	Modified
	Deleted
	None
)

func CastToChangeType(text string) constants.ChangeType {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "added":
		return Added
	case "modified":
		return Modified
	case "deleted":
		return Deleted
	case "none":
		return None
	default:
		return Unknown
	}
}

// Resolve maps a feed-supplied change-type name to its identifier.
// Unknown names are a hard failure -- a new upstream change-type name
// must be added here before a release carrying it can be ingested.
func Resolve(text string) (constants.ChangeType, error) {
	ct := CastToChangeType(text)
	if ct == Unknown {
		return Unknown, fmt.Errorf("unrecognized change-type name '%s'", text)
	}
	return ct, nil
}

func ChangeTypeToString(ct constants.ChangeType) string {
	switch ct {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case None:
		return "none"
	default:
		return "unknown"
	}
}
