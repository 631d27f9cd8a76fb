package structuralAnnotation

import (
	"fmt"
	"strings"

	"variome/api/models/constants"
)

// 3-D structural model regions (MuPIT structures) a variant
// may be annotated against.
const (
	Unknown constants.StructuralAnnotation = iota

	Struct1t15
	Struct1jm7
	Struct4igk
	Struct4ofb
	Struct4y2g
	StructFENSP00000380152_7
)

func CastToStructuralAnnotation(text string) constants.StructuralAnnotation {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1t15":
		return Struct1t15
	case "1jm7":
		return Struct1jm7
	case "4igk":
		return Struct4igk
	case "4ofb":
		return Struct4ofb
	case "4y2g":
		return Struct4y2g
	case "fensp00000380152_7":
		return StructFENSP00000380152_7
	default:
		return Unknown
	}
}

// Resolve maps a feed-supplied structure name to its identifier;
// empty and sentinel-marked values resolve to nil rather than erroring.
func Resolve(text string) (*constants.StructuralAnnotation, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "-" {
		return nil, nil
	}

	sa := CastToStructuralAnnotation(trimmed)
	if sa == Unknown {
		return nil, fmt.Errorf("unrecognized structural-annotation name '%s'", text)
	}
	return &sa, nil
}

func StructuralAnnotationToString(sa constants.StructuralAnnotation) string {
	switch sa {
	case Struct1t15:
		return "1t15"
	case Struct1jm7:
		return "1jm7"
	case Struct4igk:
		return "4igk"
	case Struct4ofb:
		return "4ofb"
	case Struct4y2g:
		return "4y2g"
	case StructFENSP00000380152_7:
		return "fENSP00000380152_7"
	default:
		return "unknown"
	}
}
