package beacon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"

	"variome/api/models"
	changeType "variome/api/models/constants/change-type"
	"variome/api/models/entities"
	"variome/api/repositories"
)

// The maximum allowed length of HTTP request URLs
const urlMax = 1000

const beaconDataIndex = "beacon-data"

type (
	// BeaconService queries the GA4GH beacon network for every current
	// single-nucleotide variant and records which beacons report it.
	BeaconService struct {
		Config *models.Config
		Store  repositories.Store
		Client *http.Client
	}

	VariantSummary struct {
		GenomicCoordinateHg38 string   `json:"genomicCoordinateHg38"`
		BeaconNames           []string `json:"beaconNames"`
		BeaconIds             []string `json:"beaconIds"`
		NumBeacons            int      `json:"numBeacons"`
		NotFound              int      `json:"notFound"`
		NotApplicable         int      `json:"notApplicable"`
		Url                   string   `json:"url"`
		Error                 string   `json:"error"`
	}
)

func NewBeaconService(cfg *models.Config, store repositories.Store) *BeaconService {
	return &BeaconService{
		Config: cfg,
		Store:  store,
		Client: &http.Client{Timeout: 180 * time.Second},
	}
}

// UpdateBeaconData runs one full pass over the current-variant
// snapshot. Non-SNVs and variants whose request URL would be too long
// are recorded as skipped rather than queried. Returns the number of
// variants processed.
func (bz *BeaconService) UpdateBeaconData(ctx context.Context) (int, error) {
	beaconIds, aggregators, beaconsErr := bz.fetchBeaconList()
	if beaconsErr != nil {
		return 0, fmt.Errorf("failed to access the beacon network: %v", beaconsErr)
	}
	fmt.Printf("[%s] - Beacon network lists %d non-aggregator beacons\n", time.Now(), len(beaconIds))

	variants, variantsErr := bz.Store.CurrentVariants(ctx)
	if variantsErr != nil {
		return 0, variantsErr
	}

	batch := bz.Store.Begin()
	processed := 0
	for _, variant := range variants {
		if variant.ChangeType == changeType.Deleted {
			continue
		}

		summary := bz.queryVariant(variant, aggregators)
		batch.StageDocument(beaconDataIndex, map[string]interface{}{
			"genomicCoordinateHg38": summary.GenomicCoordinateHg38,
			"beaconNames":           summary.BeaconNames,
			"beaconIds":             summary.BeaconIds,
			"numBeacons":            summary.NumBeacons,
			"notFound":              summary.NotFound,
			"notApplicable":         summary.NotApplicable,
			"url":                   summary.Url,
			"error":                 summary.Error,
		})
		processed++
	}

	if commitErr := batch.Commit(ctx); commitErr != nil {
		return 0, commitErr
	}
	return processed, nil
}

func (bz *BeaconService) queryVariant(variant *entities.Variant, aggregators map[string]bool) *VariantSummary {
	summary := &VariantSummary{GenomicCoordinateHg38: variant.GenomicCoordinateHg38}

	if len(variant.Ref) != 1 || len(variant.Alt) != 1 {
		summary.Error = "Variant is not a SNP"
		return summary
	}

	request := fmt.Sprintf("?chrom=%s&pos=%d&allele=%s&ref=GRCh37",
		variant.Chr, variant.Hg37Start-1, variant.Alt)
	if len(bz.Config.Beacon.ResponsesUrl+request) > urlMax {
		summary.Error = "Variant URL is too long"
		return summary
	}

	summary.Url = fmt.Sprintf("https://beacon-network.org/#/search?chrom=%s&pos=%d&ref=%s&allele=%s&rs=GRCh37",
		variant.Chr, variant.Hg37Start, variant.Ref, variant.Alt)

	body, fetchErr := bz.fetchWithRetry(bz.Config.Beacon.ResponsesUrl + request)
	if fetchErr != nil {
		summary.Error = fmt.Sprintf("Failed request: %v", fetchErr)
		return summary
	}

	responses, parseErr := gabs.ParseJSON(body)
	if parseErr != nil {
		summary.Error = fmt.Sprintf("Unparseable response: %v", parseErr)
		return summary
	}

	children, childrenErr := responses.Children()
	if childrenErr != nil {
		summary.NotApplicable++
		return summary
	}

	for _, response := range children {
		if !response.ExistsP("response") {
			summary.NotApplicable++
			continue
		}

		switch value := response.Path("response").Data().(type) {
		case bool:
			if !value {
				summary.NotFound++
				continue
			}
			beaconId, _ := response.Path("beacon.id").Data().(string)
			if aggregators[beaconId] {
				continue
			}
			beaconName, _ := response.Path("beacon.name").Data().(string)
			summary.BeaconNames = append(summary.BeaconNames, beaconName)
			summary.BeaconIds = append(summary.BeaconIds, beaconId)
			summary.NumBeacons++
		default:
			summary.NotApplicable++
		}
	}

	return summary
}

// fetchBeaconList returns the non-aggregator beacon ids and the set of
// aggregator ids (aggregators echo other beacons' data and would
// double count).
func (bz *BeaconService) fetchBeaconList() ([]string, map[string]bool, error) {
	body, fetchErr := bz.fetchWithRetry(bz.Config.Beacon.BeaconsUrl)
	if fetchErr != nil {
		return nil, nil, fetchErr
	}

	beacons, parseErr := gabs.ParseJSON(body)
	if parseErr != nil {
		return nil, nil, parseErr
	}
	children, childrenErr := beacons.Children()
	if childrenErr != nil {
		return nil, nil, childrenErr
	}

	var beaconIds []string
	aggregators := map[string]bool{}
	for _, beacon := range children {
		id, _ := beacon.Path("id").Data().(string)
		if aggregator, ok := beacon.Path("aggregator").Data().(bool); ok && aggregator {
			aggregators[id] = true
			continue
		}
		beaconIds = append(beaconIds, id)
	}
	return beaconIds, aggregators, nil
}

func (bz *BeaconService) fetchWithRetry(url string) ([]byte, error) {
	maxRetries := bz.Config.Beacon.MaxRetries
	if maxRetries < 1 {
		maxRetries = 5
	}

	var body []byte
	operation := func() error {
		resp, err := bz.Client.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("got a %d status code from %s", resp.StatusCode, url)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	retryBackoff := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries))
	if err := backoff.Retry(operation, retryBackoff); err != nil {
		return nil, err
	}
	return body, nil
}
