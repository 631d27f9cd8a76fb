package concordance

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"variome/api/models"
	"variome/api/models/constants/source"
	triState "variome/api/models/constants/tri-state"
	"variome/api/models/entities"
	"variome/api/repositories/memory"
)

func clinvarReport(significance string, submitter string) *entities.Report {
	return &entities.Report{Source: source.ClinVar, Significance: significance, Submitters: submitter}
}

func lovdReport(effect string, submitter string) *entities.Report {
	return &entities.Report{Source: source.Lovd, Significance: effect, Submitters: submitter}
}

func TestEvaluateVariantExclusion(t *testing.T) {
	variant := &entities.Variant{GenomicCoordinateHg38: "chr17:g.43045711:T>C"}

	t.Run("should exclude a variant with no tracked reports", func(t *testing.T) {
		_, applicable := EvaluateVariant(variant, nil)
		assert.False(t, applicable)
	})

	t.Run("should exclude a variant with a single tracked report", func(t *testing.T) {
		_, applicable := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
		})
		assert.False(t, applicable)
	})

	t.Run("should not count untracked sources toward the threshold", func(t *testing.T) {
		_, applicable := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			{Source: source.Bic, Significance: "Pathogenic"},
		})
		assert.False(t, applicable)
	})

	t.Run("should evaluate a variant with two tracked reports", func(t *testing.T) {
		_, applicable := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			lovdReport("DNA/+", "lab"),
		})
		assert.True(t, applicable)
	})
}

func TestEvaluateVariantVerdicts(t *testing.T) {
	variant := &entities.Variant{GenomicCoordinateHg38: "chr17:g.43045711:T>C"}

	t.Run("should flag a source that disagrees with itself", func(t *testing.T) {
		row, applicable := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			clinvarReport("Benign", "GeneDx"),
		})
		assert.True(t, applicable)

		assert.Equal(t, triState.False, row.ConsistencyClinvar)
		assert.Equal(t, triState.True, row.DiscordanceClinvar)
		assert.Equal(t, triState.False, row.JointConsistency)
		assert.Equal(t, triState.True, row.JointDiscordance)

		// the other source contributed nothing
		assert.Equal(t, triState.Unknown, row.ConsistencyLovd)
		assert.Equal(t, triState.Unknown, row.DiscordanceLovd)
	})

	t.Run("should call a source consistent when all calls lean one way", func(t *testing.T) {
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			clinvarReport("Likely Pathogenic", "GeneDx"),
		})

		assert.Equal(t, triState.True, row.ConsistencyClinvar)
		assert.Equal(t, triState.False, row.DiscordanceClinvar)
		assert.Equal(t, triState.True, row.JointConsistency)
		assert.Equal(t, triState.False, row.JointDiscordance)
	})

	t.Run("should flag cross-source conflict in the joint verdicts only", func(t *testing.T) {
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			lovdReport("DNA/-", "lab"),
		})

		// each source alone is clean
		assert.Equal(t, triState.True, row.ConsistencyClinvar)
		assert.Equal(t, triState.True, row.ConsistencyLovd)
		assert.Equal(t, triState.Unknown, row.DiscordanceClinvar)
		assert.Equal(t, triState.Unknown, row.DiscordanceLovd)

		// together they conflict
		assert.Equal(t, triState.False, row.JointConsistency)
		assert.Equal(t, triState.True, row.JointDiscordance)
	})

	t.Run("should not let an uncertain call create discordance", func(t *testing.T) {
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			clinvarReport("Uncertain", "GeneDx"),
		})

		// uncertain counts against consistency
		assert.Equal(t, triState.False, row.ConsistencyClinvar)
		// but never creates a genuine conflict
		assert.Equal(t, triState.Unknown, row.DiscordanceClinvar)
		assert.Equal(t, triState.False, row.JointDiscordance)
	})

	t.Run("should leave everything unknown when no call classifies", func(t *testing.T) {
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("drug response", "SCRP"),
			lovdReport("DNA/not provided", "lab"),
		})

		assert.Equal(t, triState.Unknown, row.ConsistencyClinvar)
		assert.Equal(t, triState.Unknown, row.ConsistencyLovd)
		assert.Equal(t, triState.Unknown, row.JointConsistency)
		assert.Equal(t, triState.Unknown, row.DiscordanceClinvar)
		assert.Equal(t, triState.Unknown, row.DiscordanceLovd)
		assert.Equal(t, triState.Unknown, row.JointDiscordance)

		assert.Equal(t, 2, row.UnrecognizedTerms)
	})
}

func TestCombineSources(t *testing.T) {
	flagCombos := []directionFlags{
		{seenPositive: false, seenNegative: false},
		{seenPositive: true, seenNegative: false},
		{seenPositive: false, seenNegative: true},
		{seenPositive: true, seenNegative: true},
	}

	t.Run("should agree with the pairing rule on every flag combination", func(t *testing.T) {
		for _, a := range flagCombos {
			for _, b := range flagCombos {
				expected := triState.True
				switch {
				case (a.seenPositive && a.seenNegative) || (b.seenPositive && b.seenNegative),
					a.seenPositive && b.seenNegative,
					a.seenNegative && b.seenPositive:
					expected = triState.False
				case !a.seenPositive && !a.seenNegative && !b.seenPositive && !b.seenNegative:
					expected = triState.Unknown
				}

				assert.Equal(t, expected, combineSources(a, b), "a=%+v b=%+v", a, b)
			}
		}
	})

	t.Run("should be symmetric", func(t *testing.T) {
		for _, a := range flagCombos {
			for _, b := range flagCombos {
				assert.Equal(t, combineSources(a, b), combineSources(b, a))
			}
		}
	})
}

func TestPerSourceVerdicts(t *testing.T) {
	t.Run("consistency should depend on directions only", func(t *testing.T) {
		assert.Equal(t, triState.Unknown, perSourceConsistency(directionFlags{}))
		assert.Equal(t, triState.True, perSourceConsistency(directionFlags{seenPositive: true, classified: 1}))
		assert.Equal(t, triState.True, perSourceConsistency(directionFlags{seenNegative: true, classified: 3}))
		assert.Equal(t, triState.False, perSourceConsistency(directionFlags{seenPositive: true, seenNegative: true, classified: 2}))
	})

	t.Run("discordance should need two classifiable calls to acquit", func(t *testing.T) {
		assert.Equal(t, triState.Unknown, perSourceDiscordance(directionFlags{}))
		assert.Equal(t, triState.Unknown, perSourceDiscordance(directionFlags{seenPositive: true, classified: 1}))
		assert.Equal(t, triState.False, perSourceDiscordance(directionFlags{seenPositive: true, classified: 2}))
		assert.Equal(t, triState.True, perSourceDiscordance(directionFlags{seenPositive: true, seenNegative: true, classified: 2}))
	})
}

func TestEvaluateVariantEvidence(t *testing.T) {
	variant := &entities.Variant{GenomicCoordinateHg38: "chr17:g.43045711:T>C", HgvsCdna: "c.123T>C"}

	t.Run("should concatenate evidence in report order without deduplication", func(t *testing.T) {
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			clinvarReport("Pathogenic", "GeneDx"),
		})

		assert.Equal(t, "pathogenic, pathogenic", row.ClinicalSignificanceClinvar)
		assert.Equal(t, "SCRP, GeneDx", row.SubmitterClinvar)
	})

	t.Run("should lowercase clinvar assessments but not lovd effects", func(t *testing.T) {
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Likely Pathogenic", "SCRP"),
			lovdReport("DNA/+?", "lab"),
		})

		assert.Equal(t, "likely pathogenic", row.ClinicalSignificanceClinvar)
		assert.Equal(t, "DNA/+?", row.VariantEffectLovd)
	})

	t.Run("should serialize the row in export column order", func(t *testing.T) {
		exac := 0.0001
		variant := &entities.Variant{
			GenomicCoordinateHg38: "chr17:g.43045711:T>C",
			HgvsCdna:              "c.123T>C",
			AlleleFrequencyExac:   &exac,
		}
		row, _ := EvaluateVariant(variant, []*entities.Report{
			clinvarReport("Pathogenic", "SCRP"),
			clinvarReport("Benign", "GeneDx"),
		})

		record := row.Record()
		assert.Len(t, record, len(ExportHeader))
		assert.Equal(t, "chr17:g.43045711:T>C", record[0])
		assert.Equal(t, "c.123T>C", record[1])
		assert.Equal(t, "SCRP, GeneDx", record[2])
		assert.Equal(t, "pathogenic, benign", record[3])
		assert.Equal(t, "false", record[4])  // Consistency_ClinVar
		assert.Equal(t, "true", record[5])   // Discordance_ClinVar
		assert.Equal(t, "-", record[8])      // Consistency_LOVD
		assert.Equal(t, "0.0001", record[12])
		assert.Equal(t, "-", record[13])
	})
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	batch := store.Begin()

	batch.StageRelease(&entities.Release{Id: 1})

	batch.StageVariant(&entities.Variant{
		Id: "v1", ReleaseId: 1, GenomicCoordinateHg38: "chr17:g.43045711:T>C",
	})
	batch.StageReport(&entities.Report{
		ReleaseId: 1, GenomicCoordinateHg38: "chr17:g.43045711:T>C",
		Source: source.ClinVar, Significance: "Pathogenic", Submitters: "SCRP",
	})
	batch.StageReport(&entities.Report{
		ReleaseId: 1, GenomicCoordinateHg38: "chr17:g.43045711:T>C",
		Source: source.Lovd, Significance: "DNA/-", Submitters: "lab",
	})

	// one variant below the tracked-report threshold
	batch.StageVariant(&entities.Variant{
		Id: "v2", ReleaseId: 1, GenomicCoordinateHg38: "chr13:g.32316461:G>A",
	})
	batch.StageReport(&entities.Report{
		ReleaseId: 1, GenomicCoordinateHg38: "chr13:g.32316461:G>A",
		Source: source.ClinVar, Significance: "Benign", Submitters: "SCRP",
	})

	assert.NoError(t, batch.Commit(context.Background()))
	return store
}

func TestRunExport(t *testing.T) {
	cfg := &models.Config{}
	store := seedStore(t)
	service := NewConcordanceService(cfg, store)

	t.Run("should write a header plus one row per applicable variant", func(t *testing.T) {
		var out bytes.Buffer
		summary, err := service.RunExport(context.Background(), &out)
		assert.NoError(t, err)

		assert.Equal(t, 1, summary.RowsWritten)
		assert.Equal(t, 1, summary.VariantsExcluded)
		assert.Equal(t, 0, summary.UnrecognizedTerms)

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, strings.Join(ExportHeader, "\t"), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "chr17:g.43045711:T>C\t"))
	})

	t.Run("should be byte-for-byte idempotent on an unchanged snapshot", func(t *testing.T) {
		var first, second bytes.Buffer
		_, err := service.RunExport(context.Background(), &first)
		assert.NoError(t, err)
		_, err = service.RunExport(context.Background(), &second)
		assert.NoError(t, err)

		assert.Equal(t, first.String(), second.String())
	})

	t.Run("should expose the last run summary", func(t *testing.T) {
		var out bytes.Buffer
		summary, err := service.RunExport(context.Background(), &out)
		assert.NoError(t, err)

		assert.Equal(t, summary, service.LastRun())
	})
}
