package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout Variome and it's
	associated services.
*/
type ChangeType int
type StructuralAnnotation int

type TriState int
type Leaning int
