package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/elastic/go-elasticsearch/v7/esutil"

	"variome/api/models/entities"
	"variome/api/repositories"
)

type stagedDocument struct {
	index      string
	documentId string
	document   interface{}
}

// batch accumulates one release's documents and submits them in a
// single bulk flush on Commit. Nothing reaches Elasticsearch before
// Commit, so an aborted ingestion leaves no trace.
type batch struct {
	store  *Store
	staged []stagedDocument
}

func (s *Store) Begin() repositories.Batch {
	return &batch{store: s}
}

func (b *batch) StageRelease(release *entities.Release) {
	b.staged = append(b.staged, stagedDocument{
		index:      releasesIndex,
		documentId: strconv.Itoa(release.Id),
		document:   release,
	})
}

func (b *batch) StageVariant(variant *entities.Variant) {
	b.staged = append(b.staged, stagedDocument{
		index:      variantsIndex,
		documentId: variant.Id,
		document:   variant,
	})
}

func (b *batch) StageReport(report *entities.Report) {
	b.staged = append(b.staged, stagedDocument{
		index:      reportsIndex,
		documentId: report.Id,
		document:   report,
	})
}

func (b *batch) StageDocument(index string, document map[string]interface{}) {
	b.staged = append(b.staged, stagedDocument{index: index, document: document})
}

func (b *batch) Commit(ctx context.Context) error {
	return b.store.bulkIndex(ctx, b.staged)
}

func (s *Store) bulkIndex(ctx context.Context, documents []stagedDocument) error {
	//see: https://www.elastic.co/blog/why-am-i-seeing-bulk-rejections-in-my-elasticsearch-cluster
	numWorkers := s.Config.Api.BulkIndexingCap / 100
	if numWorkers < 1 {
		numWorkers = 1
	}

	bi, biErr := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     s.Client,
		NumWorkers: numWorkers,
	})
	if biErr != nil {
		return biErr
	}

	var failed int64
	for _, staged := range documents {
		payload, marshallErr := json.Marshal(staged.document)
		if marshallErr != nil {
			return fmt.Errorf("cannot encode document for index '%s': %v", staged.index, marshallErr)
		}

		addErr := bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			Index:      staged.index,
			DocumentID: staged.documentId,
			Body:       bytes.NewReader(payload),

			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddInt64(&failed, 1)
				if err != nil {
					fmt.Printf("ERROR: %s\n", err)
				} else {
					fmt.Printf("ERROR: %s: %s\n", res.Error.Type, res.Error.Reason)
				}
			},
		})
		if addErr != nil {
			return addErr
		}
	}

	if err := bi.Close(ctx); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("bulk indexing reported %d failed documents", failed)
	}
	return nil
}

// recreateIndex drops and re-fills a derived index.
func (s *Store) recreateIndex(ctx context.Context, index string, documents []stagedDocument) error {
	res, err := s.Client.Indices.Delete(
		[]string{index},
		s.Client.Indices.Delete.WithContext(ctx),
		s.Client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return err
	}
	res.Body.Close()

	return s.bulkIndex(ctx, documents)
}
