package source

// Canonical storage names for the contributing sources. The two
// tracked sources feed the concordance classifier; the rest only carry
// membership flags and report linkage.
const (
	ClinVar     string = "ClinVar"
	Lovd        string = "LOVD"
	ExLovd      string = "exLOVD"
	Bic         string = "BIC"
	Genomes1000 string = "1000_Genomes"
	Exac        string = "ExAC"
	Esp         string = "ESP"
	Enigma      string = "ENIGMA"
)

// TrackedSources are the sources whose assessments participate in
// consistency/discordance verdicts.
var TrackedSources = []string{ClinVar, Lovd}

// StorageAlias maps a release-metadata display name onto the canonical
// name used in BX id columns and membership flags. Three sources are
// known to differ between display and storage.
func StorageAlias(displayName string) string {
	switch displayName {
	case "Bic":
		return Bic
	case "1000 Genomes":
		return Genomes1000
	case "ExUV":
		return ExLovd
	default:
		return displayName
	}
}
