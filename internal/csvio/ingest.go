// Package csvio parses uploaded company CSVs and serializes enriched output.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/headcount/internal/model"
)

// headerColumn is the required input column, matched case-insensitively
// after trimming whitespace.
const headerColumn = "Company Name"

// InputError marks a failure caused by malformed upload content. Handlers
// translate it into a 400 response with no file.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputErrf(format string, args ...any) error {
	return &InputError{Err: eris.Errorf(format, args...)}
}

// IsInputError reports whether err (or any error in its chain) is an
// InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Ingest parses raw upload bytes into pending CompanyRecords for the given
// country. The input must carry a header row containing a "Company Name"
// column. Rows with a blank name are skipped and do not count toward the
// job total; ordinals are assigned densely over the kept rows.
//
// A UTF-8 or UTF-16 byte order mark is tolerated and stripped before
// parsing.
func Ingest(data []byte, country string) ([]model.CompanyRecord, error) {
	decoded, err := decode(data)
	if err != nil {
		return nil, &InputError{Err: eris.Wrap(err, "csvio: decode upload")}
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, inputErrf("csvio: empty file")
	}
	if err != nil {
		return nil, &InputError{Err: eris.Wrap(err, "csvio: read header")}
	}

	nameIdx := -1
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), headerColumn) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, inputErrf("csvio: missing required column %q", headerColumn)
	}

	var records []model.CompanyRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputError{Err: eris.Wrap(err, "csvio: read row")}
		}

		if nameIdx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			continue
		}

		records = append(records, model.CompanyRecord{
			Ordinal: len(records),
			Name:    name,
			Country: country,
			Status:  model.StatusPending,
		})
	}

	return records, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// decode strips any leading BOM and normalizes the bytes to UTF-8.
// Exported spreadsheets frequently carry a UTF-8 BOM (utf-8-sig) or are
// saved as UTF-16. Input that is neither BOM-marked UTF-16 nor valid
// UTF-8 is rejected rather than silently replaced with U+FFFD runes.
func decode(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF16BE) || bytes.HasPrefix(data, bomUTF16LE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, eris.Wrap(err, "csvio: transform bytes")
		}
		return out, nil
	}

	data = bytes.TrimPrefix(data, bomUTF8)
	if !utf8.Valid(data) {
		return nil, eris.New("csvio: input is not valid utf-8 text")
	}
	return data, nil
}
