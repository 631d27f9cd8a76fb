package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"variome/api/models/constants/leaning"
	"variome/api/models/constants/source"
)

func TestClassifyClinvarTerms(t *testing.T) {
	t.Run("should classify pathogenic calls as positive under both checks", func(t *testing.T) {
		for _, term := range []string{"Pathogenic", "pathogenic", "Likely Pathogenic", "  likely pathogenic  "} {
			assert.Equal(t, leaning.Positive, Classify(Consistency, source.ClinVar, term), term)
			assert.Equal(t, leaning.Positive, Classify(Discordance, source.ClinVar, term), term)
		}
	})

	t.Run("should classify benign calls as negative under both checks", func(t *testing.T) {
		for _, term := range []string{"Benign", "likely benign"} {
			assert.Equal(t, leaning.Negative, Classify(Consistency, source.ClinVar, term), term)
			assert.Equal(t, leaning.Negative, Classify(Discordance, source.ClinVar, term), term)
		}
	})

	t.Run("should count uncertain calls toward inconsistency only", func(t *testing.T) {
		for _, term := range []string{"Uncertain", "unclassified"} {
			assert.Equal(t, leaning.Negative, Classify(Consistency, source.ClinVar, term), term)
			assert.Equal(t, leaning.Neither, Classify(Discordance, source.ClinVar, term), term)
		}
	})

	t.Run("should classify unknown terms as neither", func(t *testing.T) {
		for _, term := range []string{"drug response", "risk factor", ""} {
			assert.Equal(t, leaning.Neither, Classify(Consistency, source.ClinVar, term), term)
			assert.Equal(t, leaning.Neither, Classify(Discordance, source.ClinVar, term), term)
		}
	})
}

func TestClassifyLovdTerms(t *testing.T) {
	t.Run("should classify only the curator call of a compound term", func(t *testing.T) {
		assert.Equal(t, leaning.Positive, Classify(Consistency, source.Lovd, "DNA/+"))
		assert.Equal(t, leaning.Positive, Classify(Discordance, source.Lovd, "RNA/+?"))
		assert.Equal(t, leaning.Negative, Classify(Consistency, source.Lovd, "DNA/-"))
		assert.Equal(t, leaning.Negative, Classify(Discordance, source.Lovd, "protein/-?"))
	})

	t.Run("should split on the first slash only", func(t *testing.T) {
		// a second slash belongs to the curator call itself
		assert.Equal(t, leaning.Neither, Classify(Consistency, source.Lovd, "DNA/+/extra"))
	})

	t.Run("should classify bare calls without a method prefix", func(t *testing.T) {
		assert.Equal(t, leaning.Positive, Classify(Consistency, source.Lovd, "+"))
		assert.Equal(t, leaning.Negative, Classify(Consistency, source.Lovd, "-?"))
	})

	t.Run("should treat question marks and dots per check", func(t *testing.T) {
		assert.Equal(t, leaning.Negative, Classify(Consistency, source.Lovd, "DNA/?"))
		assert.Equal(t, leaning.Neither, Classify(Discordance, source.Lovd, "DNA/?"))

		// the dot placeholder is negative under both checks
		assert.Equal(t, leaning.Negative, Classify(Consistency, source.Lovd, "."))
		assert.Equal(t, leaning.Negative, Classify(Discordance, source.Lovd, "."))
		assert.Equal(t, leaning.Negative, Classify(Discordance, source.Lovd, "?/."))
	})

	t.Run("should not split compound terms for other sources", func(t *testing.T) {
		assert.Equal(t, leaning.Neither, Classify(Consistency, source.ClinVar, "DNA/+"))
	})
}
