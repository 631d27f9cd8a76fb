package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"variome/api/models"
	changeType "variome/api/models/constants/change-type"
	"variome/api/models/constants/source"
	structuralAnnotation "variome/api/models/constants/structural-annotation"
	"variome/api/models/entities"
	"variome/api/models/ingest"
	"variome/api/repositories"
	"variome/api/utils"
)

// two historical names were used for the ESP minor allele frequency
// column before the percentage denotation settled
var oldMafEspFieldNames = []string{
	"Minor_allele_frequency_ESP",
	"Minor_allele_frequency_ESP_percent",
}

const canonicalMafEspFieldName = "Minor_allele_frequency_percent_ESP"

// cleaned-up pyhgvs coordinate/HGVS columns collapse onto canonical
// field names at ingestion
var pyhgvsFieldRenames = map[string]string{
	"pyhgvs_Genomic_Coordinate_38": "Genomic_Coordinate_hg38",
	"pyhgvs_Genomic_Coordinate_37": "Genomic_Coordinate_hg37",
	"pyhgvs_Genomic_Coordinate_36": "Genomic_Coordinate_hg36",
	"pyhgvs_Hg37_Start":            "Hg37_Start",
	"pyhgvs_Hg37_End":              "Hg37_End",
	"pyhgvs_Hg36_Start":            "Hg36_Start",
	"pyhgvs_Hg36_End":              "Hg36_End",
	"pyhgvs_cDNA":                  "HGVS_cDNA",
	"pyhgvs_Protein":               "HGVS_Protein",
}

type (
	ReleaseIngestionService struct {
		Initialized         bool
		IngestRequestChan   chan *ingest.ReleaseIngestRequest
		IngestRequestMap    map[string]*ingest.ReleaseIngestRequest
		IngestRequestMapMux sync.RWMutex

		// serializes writers over the release sequence; concurrent
		// ingestions racing on "next release id" would corrupt the
		// monotonic sequence
		ingestionMux sync.Mutex

		Config          *models.Config
		Store           repositories.Store
		DiffImporter    repositories.DiffImporter
		Autocomplete    repositories.AutocompleteIndexer
		CurrentVariants repositories.CurrentVariantRefresher
	}

	// reportDictionaries are the (source, BX id) lookup tables built
	// from the current and removed report feeds. Removed-report ids
	// are only valid in the previous release.
	reportDictionaries struct {
		reports        map[string]map[string]map[string]string
		removedReports map[string]map[string]map[string]string
	}

	// ReleaseFeedFiles names one release's input files relative to the
	// configured feed directory.
	ReleaseFeedFiles struct {
		Variants       string `json:"variants"`
		Notes          string `json:"notes"`
		Deletions      string `json:"deletions"`
		Reports        string `json:"reports"`
		RemovedReports string `json:"removedReports"`
		VariantsDiff   string `json:"variantsDiff"`
		ReportsDiff    string `json:"reportsDiff"`
	}
)

func NewReleaseIngestionService(
	cfg *models.Config,
	store repositories.Store,
	diffImporter repositories.DiffImporter,
	autocomplete repositories.AutocompleteIndexer,
	currentVariants repositories.CurrentVariantRefresher) *ReleaseIngestionService {

	iz := &ReleaseIngestionService{
		Initialized:       false,
		IngestRequestChan: make(chan *ingest.ReleaseIngestRequest),
		IngestRequestMap:  map[string]*ingest.ReleaseIngestRequest{},
		Config:            cfg,
		Store:             store,
		DiffImporter:      diffImporter,
		Autocomplete:      autocomplete,
		CurrentVariants:   currentVariants,
	}

	iz.Init()

	return iz
}

func (i *ReleaseIngestionService) Init() {
	// safeguard to prevent multiple initilizations
	if !i.Initialized {
		// spin up a go routine acting as a listener for
		// ingest request state updates
		go func() {
			for releaseIngestRequest := range i.IngestRequestChan {
				if releaseIngestRequest.State == ingest.Queued {
					fmt.Printf("Queueing a new release ingestion request %s\n", releaseIngestRequest.Id)
				}

				releaseIngestRequest.UpdatedAt = time.Now().String()
				i.IngestRequestMapMux.Lock()
				i.IngestRequestMap[releaseIngestRequest.Id.String()] = releaseIngestRequest
				i.IngestRequestMapMux.Unlock()
			}
		}()

		i.Initialized = true
	}
}

func (i *ReleaseIngestionService) ListRequests() []*ingest.ReleaseIngestRequest {
	i.IngestRequestMapMux.RLock()
	defer i.IngestRequestMapMux.RUnlock()

	requests := make([]*ingest.ReleaseIngestRequest, 0, len(i.IngestRequestMap))
	for _, request := range i.IngestRequestMap {
		requests = append(requests, request)
	}
	return requests
}

func (i *ReleaseIngestionService) IngestionRunning() bool {
	i.IngestRequestMapMux.RLock()
	defer i.IngestRequestMapMux.RUnlock()

	for _, request := range i.IngestRequestMap {
		if request.State == ingest.Queued || request.State == ingest.Running {
			return true
		}
	}
	return false
}

// LoadReleaseBatch reads one release's feeds off disk. The notes file
// is the structured metadata record; the two diff files are passed
// through opaquely.
func (i *ReleaseIngestionService) LoadReleaseBatch(files ReleaseFeedFiles) (*ingest.ReleaseBatch, error) {
	feedDir := i.Config.Api.FeedPath

	notesBytes, notesErr := os.ReadFile(path.Join(feedDir, files.Notes))
	if notesErr != nil {
		return nil, fmt.Errorf("failed reading notes file: %v", notesErr)
	}
	notesJson, parseErr := gabs.ParseJSON(notesBytes)
	if parseErr != nil {
		return nil, fmt.Errorf("notes file is not valid JSON: %v", parseErr)
	}

	metadata := ingest.ReleaseMetadata{}
	if sourceChildren, err := notesJson.Path("sources").Children(); err == nil {
		for _, child := range sourceChildren {
			if name, ok := child.Data().(string); ok {
				metadata.Sources = append(metadata.Sources, name)
			}
		}
	}
	if date, ok := notesJson.Path("date").Data().(string); ok {
		metadata.Date = date
	}
	if comment, ok := notesJson.Path("comment").Data().(string); ok {
		metadata.Comment = comment
	}

	variantsFeed, err := utils.ReadTsvFeedFile(path.Join(feedDir, files.Variants))
	if err != nil {
		return nil, fmt.Errorf("variants feed: %v", err)
	}
	reportsFeed, err := utils.ReadTsvFeedFile(path.Join(feedDir, files.Reports))
	if err != nil {
		return nil, fmt.Errorf("reports feed: %v", err)
	}
	removedReportsFeed, err := utils.ReadTsvFeedFile(path.Join(feedDir, files.RemovedReports))
	if err != nil {
		return nil, fmt.Errorf("removed reports feed: %v", err)
	}

	batch := &ingest.ReleaseBatch{
		Metadata:       metadata,
		Variants:       variantsFeed,
		Reports:        reportsFeed,
		RemovedReports: removedReportsFeed,
	}

	// the deletions feed is optional
	if files.Deletions != "" {
		deletionsFeed, err := utils.ReadTsvFeedFile(path.Join(feedDir, files.Deletions))
		if err != nil {
			return nil, fmt.Errorf("deletions feed: %v", err)
		}
		batch.Deletions = deletionsFeed
	}

	variantsDiff, err := os.ReadFile(path.Join(feedDir, files.VariantsDiff))
	if err != nil {
		return nil, fmt.Errorf("failed reading variants diff artifact: %v", err)
	}
	reportsDiff, err := os.ReadFile(path.Join(feedDir, files.ReportsDiff))
	if err != nil {
		return nil, fmt.Errorf("failed reading reports diff artifact: %v", err)
	}
	batch.VariantsDiff = variantsDiff
	batch.ReportsDiff = reportsDiff

	return batch, nil
}

// IngestRelease merges one batch into the historical record as a new
// release: allocates the next release id, inserts variant rows,
// re-associates current and removed reports, and imports the diff
// artifacts, all as one all-or-nothing unit. Nothing is visible until
// the batch commits.
func (i *ReleaseIngestionService) IngestRelease(ctx context.Context, releaseBatch *ingest.ReleaseBatch) (*entities.Release, error) {
	i.ingestionMux.Lock()
	defer i.ingestionMux.Unlock()

	if err := releaseBatch.Validate(); err != nil {
		return nil, err
	}

	// allocate the next release id off the latest committed release;
	// the predecessor pointer replaces "max id minus one" arithmetic
	// for cross-release lookups
	latestRelease, latestErr := i.Store.LatestRelease(ctx)
	if latestErr != nil {
		return nil, latestErr
	}
	release := &entities.Release{
		Id:      1,
		Sources: releaseBatch.Metadata.Sources,
		Date:    releaseBatch.Metadata.Date,
		Comment: releaseBatch.Metadata.Comment,
	}
	if latestRelease != nil {
		release.Id = latestRelease.Id + 1
		release.PredecessorId = latestRelease.Id
	}

	batch := i.Store.Begin()
	batch.StageRelease(release)

	dictionaries, dictErr := buildReportDictionaries(releaseBatch.Reports, releaseBatch.RemovedReports)
	if dictErr != nil {
		return nil, dictErr
	}

	// variant change-rows; rows with an empty change_type are skipped
	// for insertion (they are only candidates for the deletions pass)
	var insertedVariants []*entities.Variant
	for rowIndex := range releaseBatch.Variants.Rows {
		rowMap := releaseBatch.Variants.RowMap(rowIndex)
		if strings.TrimSpace(rowMap["change_type"]) == "" {
			continue
		}

		variant, normErr := normalizeVariantRow(rowMap, release.Id, false)
		if normErr != nil {
			return nil, normErr
		}
		batch.StageVariant(variant)
		insertedVariants = append(insertedVariants, variant)
	}

	// deleted variants: same schema sans change_type, forced to
	// "deleted" with the structural annotation nulled out
	if releaseBatch.Deletions != nil {
		for rowIndex := range releaseBatch.Deletions.Rows {
			rowMap := releaseBatch.Deletions.RowMap(rowIndex)
			variant, normErr := normalizeVariantRow(rowMap, release.Id, true)
			if normErr != nil {
				return nil, normErr
			}
			batch.StageVariant(variant)
		}
	}

	// report association, per contributing source
	for _, variant := range insertedVariants {
		if variant.ChangeType == changeType.Deleted {
			continue
		}
		if err := i.associateReportsToVariant(ctx, variant, dictionaries, releaseBatch.Metadata.Sources, release, batch); err != nil {
			return nil, err
		}
	}

	// diff import runs inside the same all-or-nothing boundary: a diff
	// failure aborts the release instead of orphaning it
	if diffErr := i.DiffImporter.Import(ctx, release.Id, releaseBatch.VariantsDiff, releaseBatch.ReportsDiff, batch); diffErr != nil {
		return nil, diffErr
	}

	if commitErr := batch.Commit(ctx); commitErr != nil {
		return nil, commitErr
	}

	// derived state; the maintenance job re-runs these nightly so a
	// failure here does not undo the committed release
	if refreshErr := i.CurrentVariants.Refresh(ctx); refreshErr != nil {
		fmt.Printf("[%s] - Release %d committed but current-variant refresh failed : %v\n", time.Now(), release.Id, refreshErr)
	}
	if rebuildErr := i.Autocomplete.Rebuild(ctx); rebuildErr != nil {
		fmt.Printf("[%s] - Release %d committed but autocomplete rebuild failed : %v\n", time.Now(), release.Id, rebuildErr)
	}

	return release, nil
}

// associateReportsToVariant attaches this release's reports to a newly
// inserted variant via the variant's own BX ids, and removed reports
// via the predecessor release's variant row for the same coordinate
// (removed-report BX ids are only valid in the previous release).
func (i *ReleaseIngestionService) associateReportsToVariant(
	ctx context.Context,
	variant *entities.Variant,
	dictionaries *reportDictionaries,
	sources []string,
	release *entities.Release,
	batch repositories.Batch) error {

	var previousVariant *entities.Variant
	if release.PredecessorId > 0 {
		var lookupErr error
		previousVariant, lookupErr = i.Store.VariantByCoordinate(ctx, release.PredecessorId, variant.GenomicCoordinateHg38)
		if lookupErr != nil {
			return lookupErr
		}
	}

	for _, displayName := range sources {
		sourceName := source.StorageAlias(displayName)

		for _, bxId := range variant.BxIds[sourceName] {
			row, found := dictionaries.reports[sourceName][bxId]
			if !found {
				return fmt.Errorf("variant %s references BX id '%s' for source %s but the reports feed has no such report",
					variant.GenomicCoordinateHg38, bxId, sourceName)
			}
			report, reportErr := buildReport(row, sourceName, bxId, variant, release.Id)
			if reportErr != nil {
				return reportErr
			}
			batch.StageReport(report)
		}

		// a coordinate with no previous-release row is brand new and
		// has nothing to remove
		if previousVariant == nil {
			continue
		}
		for _, bxId := range previousVariant.BxIds[sourceName] {
			row, found := dictionaries.removedReports[sourceName][bxId]
			if !found {
				continue
			}
			report, reportErr := buildReport(row, sourceName, bxId, variant, release.Id)
			if reportErr != nil {
				return reportErr
			}
			batch.StageReport(report)
		}
	}

	return nil
}

// buildReportDictionaries keys both report feeds by (source, BX id).
// A collision within one scope means the upstream feed is malformed.
func buildReportDictionaries(reports *ingest.Feed, removedReports *ingest.Feed) (*reportDictionaries, error) {
	dictionaries := &reportDictionaries{
		reports:        map[string]map[string]map[string]string{},
		removedReports: map[string]map[string]map[string]string{},
	}

	for rowIndex := range reports.Rows {
		row := reports.RowMap(rowIndex)
		if utils.IsEmptyMarker(row["change_type"]) {
			row["change_type"] = "none"
		}
		if err := addReportRow(dictionaries.reports, row, "reports"); err != nil {
			return nil, err
		}
	}

	for rowIndex := range removedReports.Rows {
		row := removedReports.RowMap(rowIndex)
		row["change_type"] = "deleted"
		if err := addReportRow(dictionaries.removedReports, row, "removed reports"); err != nil {
			return nil, err
		}
	}

	return dictionaries, nil
}

func addReportRow(dictionary map[string]map[string]map[string]string, row map[string]string, feedName string) error {
	sourceName := row["Source"]
	bxId := row["BX_ID_"+sourceName]
	if sourceName == "" || utils.IsEmptyMarker(bxId) {
		return fmt.Errorf("%s feed row is missing its source or BX id", feedName)
	}

	if dictionary[sourceName] == nil {
		dictionary[sourceName] = map[string]map[string]string{}
	}
	if _, collision := dictionary[sourceName][bxId]; collision {
		return fmt.Errorf("duplicate BX id '%s' for source %s in the %s feed", bxId, sourceName, feedName)
	}
	dictionary[sourceName][bxId] = row
	return nil
}

// normalizeVariantRow rewrites one feed row into a Variant document:
// the Source column becomes per-source membership flags, BX id columns
// become the per-source id lists, legacy field names collapse onto
// canonical ones, and enum names resolve to identifiers.
func normalizeVariantRow(rowMap map[string]string, releaseId int, isDeletion bool) (*entities.Variant, error) {
	doc := map[string]interface{}{}

	membership := map[string]bool{}
	for _, s := range utils.SplitAndTrim(rowMap["Source"]) {
		membership[source.StorageAlias(s)] = true
	}

	bxIds := map[string][]string{}
	for column, value := range rowMap {
		if !strings.HasPrefix(column, "BX_ID_") {
			continue
		}
		if utils.IsEmptyMarker(value) {
			continue
		}
		bxIds[strings.TrimPrefix(column, "BX_ID_")] = utils.SplitAndTrim(value)
	}

	if isDeletion {
		doc["Change_Type"] = changeType.Deleted
		// deletions carry no structural annotation
	} else {
		ct, ctErr := changeType.Resolve(rowMap["change_type"])
		if ctErr != nil {
			return nil, ctErr
		}
		doc["Change_Type"] = ct

		sa, saErr := structuralAnnotation.Resolve(rowMap["mupit_structure"])
		if saErr != nil {
			return nil, saErr
		}
		if sa != nil {
			doc["Structural_Annotation"] = sa
		}
	}

	// use cleaned up genomic coordinates and other values
	canonical := map[string]string{}
	for column, value := range rowMap {
		if renamed, isPyhgvs := pyhgvsFieldRenames[column]; isPyhgvs {
			canonical[renamed] = value
			continue
		}
		canonical[column] = value
	}
	// denote percentage in the ESP field name; two different field
	// names were used previously so both are handled below
	for _, oldName := range oldMafEspFieldNames {
		if value, present := canonical[oldName]; present {
			canonical[canonicalMafEspFieldName] = value
			delete(canonical, oldName)
		}
	}

	for _, column := range []string{
		"Genomic_Coordinate_hg38", "Genomic_Coordinate_hg37", "Genomic_Coordinate_hg36",
		"Chr", "Ref", "Alt", "HGVS_cDNA", "HGVS_Protein",
	} {
		if value, present := canonical[column]; present && !utils.IsEmptyMarker(value) {
			doc[column] = strings.TrimSpace(value)
		}
	}
	for _, column := range []string{"Hg37_Start", "Hg37_End"} {
		if value, present := canonical[column]; present && !utils.IsEmptyMarker(value) {
			if parsed, parseErr := strconv.Atoi(strings.TrimSpace(value)); parseErr == nil {
				doc[column] = parsed
			}
		}
	}
	for _, column := range []string{
		"Allele_frequency_ExAC", "Allele_frequency_1000_Genomes", canonicalMafEspFieldName,
	} {
		if value, present := canonical[column]; present && !utils.IsEmptyMarker(value) {
			if parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(value), 64); parseErr == nil {
				doc[column] = &parsed
			}
		}
	}

	doc["Variant_In_Source"] = membership
	doc["BX_Ids"] = bxIds

	var variant entities.Variant
	if decodeErr := mapstructure.Decode(doc, &variant); decodeErr != nil {
		return nil, decodeErr
	}
	variant.Id = uuid.New().String()
	variant.ReleaseId = releaseId

	return &variant, nil
}

// per-source feed columns holding the assessment and submitter values
func significanceColumn(sourceName string) string {
	switch sourceName {
	case source.ClinVar:
		return "Clinical_Significance_ClinVar"
	case source.Lovd:
		return "Variant_effect_LOVD"
	default:
		return "Clinical_significance_" + sourceName
	}
}

func submitterColumn(sourceName string) string {
	switch sourceName {
	case source.ClinVar:
		return "Submitter_ClinVar"
	case source.Lovd:
		return "Submitters_LOVD"
	default:
		return "Submitters_" + sourceName
	}
}

func buildReport(row map[string]string, sourceName string, bxId string, variant *entities.Variant, releaseId int) (*entities.Report, error) {
	ct, ctErr := changeType.Resolve(row["change_type"])
	if ctErr != nil {
		return nil, ctErr
	}

	fields := make(map[string]string, len(row))
	for column, value := range row {
		fields[column] = value
	}
	for _, oldName := range oldMafEspFieldNames {
		if value, present := fields[oldName]; present {
			fields[canonicalMafEspFieldName] = value
			delete(fields, oldName)
		}
	}

	return &entities.Report{
		Id:                    uuid.New().String(),
		ReleaseId:             releaseId,
		VariantId:             variant.Id,
		GenomicCoordinateHg38: variant.GenomicCoordinateHg38,
		Source:                sourceName,
		BxId:                  bxId,
		Significance:          row[significanceColumn(sourceName)],
		Submitters:            row[submitterColumn(sourceName)],
		ChangeType:            ct,
		Fields:                fields,
	}, nil
}
