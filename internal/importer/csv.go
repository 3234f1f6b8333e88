// Package importer adapts tabular files to the recipient set's import
// interface. The engine only ever sees pre-split (address, amount)
// pairs.
package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/fystack/multisend/pkg/common/logger"
)

// CSVSource streams (address, amount) pairs from CSV rows. Extra
// columns are ignored, missing columns come through as empty strings,
// and ragged rows are tolerated. Records that fail to parse (stray
// quotes) are skipped with a warning; the rest of the file still
// imports.
type CSVSource struct {
	reader *csv.Reader
	done   bool
}

func NewCSVSource(r io.Reader) *CSVSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return &CSVSource{reader: reader}
}

func (s *CSVSource) Next() (address, amount string, ok bool) {
	for {
		if s.done {
			return "", "", false
		}

		record, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
				return "", "", false
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn("Skipping malformed CSV record", "line", parseErr.Line, "err", err)
				continue
			}
			logger.Warn("CSV read failed, import stopped", "err", err)
			s.done = true
			return "", "", false
		}

		if len(record) > 0 {
			address = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			amount = strings.TrimSpace(record[1])
		}
		return address, amount, true
	}
}
