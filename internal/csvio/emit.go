package csvio

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/headcount/internal/model"
)

// ContentType is the MIME type of emitted output.
const ContentType = "text/csv"

// OutputFilename is the suggested attachment filename for emitted output.
const OutputFilename = "updated_companies.csv"

// outputHeader is the header row of emitted output.
var outputHeader = []string{"Company Name", "Number of Employees"}

// Emit serializes the enriched records to CSV bytes in ordinal order.
// Records without an employee count (not found or failed lookups) get an
// empty field. Quoting follows standard CSV escaping via encoding/csv.
func Emit(records []model.CompanyRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(outputHeader); err != nil {
		return nil, eris.Wrap(err, "csvio: write header")
	}

	for _, rec := range records {
		count := ""
		if rec.EmployeeCount != nil {
			count = strconv.Itoa(*rec.EmployeeCount)
		}
		if err := w.Write([]string{rec.Name, count}); err != nil {
			return nil, eris.Wrapf(err, "csvio: write row %d", rec.Ordinal)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "csvio: flush")
	}

	return buf.Bytes(), nil
}
