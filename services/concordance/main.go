package concordance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"variome/api/models"
	c "variome/api/models/constants"
	"variome/api/models/constants/leaning"
	"variome/api/models/constants/source"
	triState "variome/api/models/constants/tri-state"
	"variome/api/models/dtos"
	"variome/api/models/entities"
	"variome/api/models/vocabulary"
	"variome/api/repositories"
)

// the export sentinel for evidence fields with no value
const empty = "-"

type (
	Service struct {
		Config *models.Config
		Store  repositories.Store

		lastRunMux sync.RWMutex
		lastRun    *dtos.ConcordanceRunSummary
	}

	// directionFlags is the evidence accumulated for one source under
	// one vocabulary: which directions were seen, and how many calls
	// classified at all.
	directionFlags struct {
		seenPositive bool
		seenNegative bool
		classified   int
	}

	// Row is one variant's worth of evidence and verdicts, in export
	// column order.
	Row struct {
		GenomicCoordinateHg38       string
		HgvsCdna                    string
		SubmitterClinvar            string
		ClinicalSignificanceClinvar string
		ConsistencyClinvar          c.TriState
		DiscordanceClinvar          c.TriState
		SubmittersLovd              string
		VariantEffectLovd           string
		ConsistencyLovd             c.TriState
		DiscordanceLovd             c.TriState
		JointConsistency            c.TriState
		JointDiscordance            c.TriState
		AlleleFrequencyExac         *float64
		AlleleFrequency1000Genomes  *float64

		// diagnostic only, not an export column: significance terms
		// that matched no vocabulary list and contributed to nothing
		UnrecognizedTerms int
	}
)

var ExportHeader = []string{
	"Genomic_Coordinate_hg38",
	"HGVS_cDNA",
	"Submitter_ClinVar",
	"Clinical_Significance_ClinVar",
	"Consistency_ClinVar",
	"Discordance_ClinVar",
	"Submitters_LOVD",
	"Variant_effect_LOVD",
	"Consistency_LOVD",
	"Discordance_LOVD",
	"Consistency_LOVD_And_ClinVar",
	"Discordance_LOVD_And_ClinVar",
	"Allele_frequency_ExAC",
	"Allele_frequency_1000_Genomes",
}

func NewConcordanceService(cfg *models.Config, store repositories.Store) *Service {
	return &Service{Config: cfg, Store: store}
}

// EvaluateVariant computes one variant's verdicts from its coordinate
// lineage's full report history. The second return value is false when
// the variant has fewer than two tracked-source reports and is
// excluded from the export (not applicable, not an error).
//
// Every verdict goes through the same accumulate-then-combine path.
func EvaluateVariant(variant *entities.Variant, reports []*entities.Report) (*Row, bool) {
	row := &Row{
		GenomicCoordinateHg38:       variant.GenomicCoordinateHg38,
		HgvsCdna:                    variant.HgvsCdna,
		SubmitterClinvar:            empty,
		ClinicalSignificanceClinvar: empty,
		SubmittersLovd:              empty,
		VariantEffectLovd:           empty,
		AlleleFrequencyExac:         variant.AlleleFrequencyExac,
		AlleleFrequency1000Genomes:  variant.AlleleFrequency1000Genomes,
	}

	trackedReports := 0
	for _, report := range reports {
		switch report.Source {
		case source.ClinVar:
			trackedReports++
			// ClinVar assessments are compared lowercased
			row.ClinicalSignificanceClinvar = appendEvidence(row.ClinicalSignificanceClinvar, strings.ToLower(report.Significance))
			row.SubmitterClinvar = appendEvidence(row.SubmitterClinvar, report.Submitters)
		case source.Lovd:
			trackedReports++
			row.VariantEffectLovd = appendEvidence(row.VariantEffectLovd, report.Significance)
			row.SubmittersLovd = appendEvidence(row.SubmittersLovd, report.Submitters)
		}
	}

	if trackedReports < 2 {
		return nil, false
	}

	clinvarConsistency := accumulate(vocabulary.Consistency, source.ClinVar, row.ClinicalSignificanceClinvar)
	lovdConsistency := accumulate(vocabulary.Consistency, source.Lovd, row.VariantEffectLovd)
	clinvarDiscordance := accumulate(vocabulary.Discordance, source.ClinVar, row.ClinicalSignificanceClinvar)
	lovdDiscordance := accumulate(vocabulary.Discordance, source.Lovd, row.VariantEffectLovd)

	row.ConsistencyClinvar = perSourceConsistency(clinvarConsistency)
	row.ConsistencyLovd = perSourceConsistency(lovdConsistency)
	row.JointConsistency = combineSources(clinvarConsistency, lovdConsistency)

	row.DiscordanceClinvar = perSourceDiscordance(clinvarDiscordance)
	row.DiscordanceLovd = perSourceDiscordance(lovdDiscordance)
	row.JointDiscordance = triState.Not(combineSources(clinvarDiscordance, lovdDiscordance))

	row.UnrecognizedTerms = countUnrecognizedTerms(source.ClinVar, row.ClinicalSignificanceClinvar) +
		countUnrecognizedTerms(source.Lovd, row.VariantEffectLovd)

	return row, true
}

// accumulate scans one source's concatenated assessment history under
// one vocabulary.
func accumulate(check vocabulary.Check, sourceName string, concatenated string) directionFlags {
	flags := directionFlags{}
	for _, term := range splitEvidence(concatenated) {
		switch vocabulary.Classify(check, sourceName, term) {
		case leaning.Positive:
			flags.seenPositive = true
			flags.classified++
		case leaning.Negative:
			flags.seenNegative = true
			flags.classified++
		}
	}
	return flags
}

// perSourceConsistency: both directions seen means the source's
// history genuinely disagrees with itself.
func perSourceConsistency(flags directionFlags) c.TriState {
	switch {
	case flags.seenPositive && flags.seenNegative:
		return triState.False
	case flags.seenPositive || flags.seenNegative:
		return triState.True
	default:
		return triState.Unknown
	}
}

// perSourceDiscordance: a genuine internal conflict is discordant; two
// or more classifiable calls all leaning one way are concordant; with
// fewer than two classifiable calls the conflict question has no
// answer.
func perSourceDiscordance(flags directionFlags) c.TriState {
	switch {
	case flags.seenPositive && flags.seenNegative:
		return triState.True
	case flags.classified >= 2:
		return triState.False
	default:
		return triState.Unknown
	}
}

// combineSources folds both sources' flags into the joint verdict:
// any same-source or cross-source positive/negative pairing breaks
// agreement; with no classifiable call anywhere the joint verdict is
// not applicable.
func combineSources(a directionFlags, b directionFlags) c.TriState {
	switch {
	case a.seenPositive && a.seenNegative:
		return triState.False
	case b.seenPositive && b.seenNegative:
		return triState.False
	case a.seenPositive && b.seenNegative:
		return triState.False
	case a.seenNegative && b.seenPositive:
		return triState.False
	case !a.seenPositive && !a.seenNegative && !b.seenPositive && !b.seenNegative:
		return triState.Unknown
	default:
		return triState.True
	}
}

func countUnrecognizedTerms(sourceName string, concatenated string) int {
	count := 0
	for _, term := range splitEvidence(concatenated) {
		if vocabulary.Classify(vocabulary.Consistency, sourceName, term) == leaning.Neither {
			count++
		}
	}
	return count
}

func splitEvidence(concatenated string) []string {
	if concatenated == empty {
		return nil
	}
	var terms []string
	for _, term := range strings.Split(concatenated, ",") {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}

// appendEvidence concatenates report values without deduplication.
func appendEvidence(existing string, value string) string {
	if strings.TrimSpace(value) == "" {
		value = empty
	}
	if existing == empty || existing == "" {
		return value
	}
	return existing + ", " + value
}

// Record serializes the row in export column order; tri-states
// serialize as true/false/"-".
func (row *Row) Record() []string {
	return []string{
		row.GenomicCoordinateHg38,
		orEmpty(row.HgvsCdna),
		row.SubmitterClinvar,
		row.ClinicalSignificanceClinvar,
		triState.TriStateToString(row.ConsistencyClinvar),
		triState.TriStateToString(row.DiscordanceClinvar),
		row.SubmittersLovd,
		row.VariantEffectLovd,
		triState.TriStateToString(row.ConsistencyLovd),
		triState.TriStateToString(row.DiscordanceLovd),
		triState.TriStateToString(row.JointConsistency),
		triState.TriStateToString(row.JointDiscordance),
		formatFrequency(row.AlleleFrequencyExac),
		formatFrequency(row.AlleleFrequency1000Genomes),
	}
}

func orEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return empty
	}
	return value
}

func formatFrequency(value *float64) string {
	if value == nil {
		return empty
	}
	return strconv.FormatFloat(*value, 'g', -1, 64)
}

// RunExport evaluates the full current-variant snapshot and writes
// the TSV export. Variant evaluations are independent and run in
// parallel, but rows are emitted in snapshot enumeration order so
// re-running on an unchanged snapshot is byte-for-byte idempotent.
func (s *Service) RunExport(ctx context.Context, w io.Writer) (*dtos.ConcordanceRunSummary, error) {
	fmt.Printf("[%s] - Concordance export started..\n", time.Now())

	variants, variantsErr := s.Store.CurrentVariants(ctx)
	if variantsErr != nil {
		return nil, variantsErr
	}

	concurrencyLevel := s.Config.Api.ConcordanceConcurrencyLevel
	if concurrencyLevel < 1 {
		concurrencyLevel = 4
	}

	rows := make([]*Row, len(variants))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyLevel)
	for index, variant := range variants {
		index, variant := index, variant
		g.Go(func() error {
			reports, reportsErr := s.Store.ReportsByCoordinate(groupCtx, variant.GenomicCoordinateHg38)
			if reportsErr != nil {
				return reportsErr
			}
			if row, applicable := EvaluateVariant(variant, reports); applicable {
				rows[index] = row
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(ExportHeader); err != nil {
		return nil, err
	}

	summary := &dtos.ConcordanceRunSummary{RanAt: time.Now()}
	for _, row := range rows {
		if row == nil {
			summary.VariantsExcluded++
			continue
		}
		if err := writer.Write(row.Record()); err != nil {
			return nil, err
		}
		summary.RowsWritten++
		summary.UnrecognizedTerms += row.UnrecognizedTerms
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.lastRunMux.Lock()
	s.lastRun = summary
	s.lastRunMux.Unlock()

	fmt.Printf("[%s] - Concordance export complete : %d rows, %d excluded, %d unrecognized terms\n",
		time.Now(), summary.RowsWritten, summary.VariantsExcluded, summary.UnrecognizedTerms)

	return summary, nil
}

func (s *Service) LastRun() *dtos.ConcordanceRunSummary {
	s.lastRunMux.RLock()
	defer s.lastRunMux.RUnlock()
	return s.lastRun
}
