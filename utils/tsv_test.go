package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadTsvFeed(t *testing.T) {
	t.Run("should parse a header and its rows", func(t *testing.T) {
		feed, err := ReadTsvFeed(strings.NewReader(
			"Genomic_Coordinate_hg38\tSource\tchange_type\n" +
				"chr17:g.43045711:T>C\tClinVar\tadded\n" +
				"chr13:g.32316461:G>A\tLOVD\tmodified\n"))
		assert.NoError(t, err)

		assert.Equal(t, []string{"Genomic_Coordinate_hg38", "Source", "change_type"}, feed.Header)
		assert.Len(t, feed.Rows, 2)
		assert.Equal(t, "added", feed.RowMap(0)["change_type"])
		assert.Equal(t, "chr13:g.32316461:G>A", feed.RowMap(1)["Genomic_Coordinate_hg38"])
	})

	t.Run("should reject an empty feed", func(t *testing.T) {
		_, err := ReadTsvFeed(strings.NewReader(""))
		assert.ErrorContains(t, err, "header")
	})

	t.Run("should reject a row whose field count disagrees with the header", func(t *testing.T) {
		_, err := ReadTsvFeed(strings.NewReader(
			"Genomic_Coordinate_hg38\tSource\n" +
				"chr17:g.43045711:T>C\tClinVar\tadded\n"))
		assert.ErrorContains(t, err, "malformed feed row")
	})

	t.Run("should tolerate quotes inside field values", func(t *testing.T) {
		feed, err := ReadTsvFeed(strings.NewReader(
			"Submitter\n" +
				"Lab \"A\" (Utah)\n"))
		assert.NoError(t, err)
		assert.Equal(t, `Lab "A" (Utah)`, feed.RowMap(0)["Submitter"])
	})
}

func TestValueHelpers(t *testing.T) {
	t.Run("should recognize both empty markers", func(t *testing.T) {
		assert.True(t, IsEmptyMarker(""))
		assert.True(t, IsEmptyMarker(" - "))
		assert.False(t, IsEmptyMarker("0"))
	})

	t.Run("should comma split and drop empties", func(t *testing.T) {
		assert.Equal(t, []string{"ClinVar", "LOVD"}, SplitAndTrim(" ClinVar , LOVD ,"))
		assert.Nil(t, SplitAndTrim(""))
	})
}
