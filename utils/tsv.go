package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"variome/api/models/ingest"
)

// ReadTsvFeed parses a tab-delimited feed with a mandatory header row.
// A row whose field count disagrees with the header is a hard failure
// (csv.ErrFieldCount) -- malformed feeds must abort ingestion rather
// than shift column values silently.
func ReadTsvFeed(r io.Reader) (*ingest.Feed, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("feed is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading feed header: %v", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed feed row: %v", err)
		}
		rows = append(rows, row)
	}

	return &ingest.Feed{Header: header, Rows: rows}, nil
}

func ReadTsvFeedFile(path string) (*ingest.Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTsvFeed(f)
}
