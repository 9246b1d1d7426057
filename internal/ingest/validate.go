package ingest

import (
	"fmt"
	"strings"
)

// Validation is the outcome of the structural pre-check. Valid is true iff
// Errors is empty; warnings never block processing. Callers use it to gate
// reconciliation, not parsing, which has already happened by the time the
// check runs.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// maxComfortableRows is the batch size above which a warning is attached.
const maxComfortableRows = 10000

// ValidateStructure inspects the raw batch's header set and size for the
// declared kind. An empty batch is an error and short-circuits. The header
// check is a heuristic: it only requires that some header mentions a
// license plate (or allocation, for keyed kinds) in one of the known
// languages, not that every canonical column is present.
func ValidateStructure(rows []RawRow, kind Kind) Validation {
	errs := make([]string, 0)
	warnings := make([]string, 0)

	if len(rows) == 0 {
		errs = append(errs, "file empty or no data")
		return Validation{Valid: false, Errors: errs, Warnings: warnings}
	}

	headers := make([]string, 0, len(rows[0]))
	for h := range rows[0] {
		headers = append(headers, h)
	}

	switch kind {
	case KindReservations, KindDeliveries, KindCollections:
		if !anyHeaderContains(headers, "license", "matrícula", "matricula", "allocation", "alocação", "alocacao") {
			errs = append(errs, "missing required headers: license plate, allocation")
		}
	case KindCash:
		if !anyHeaderContains(headers, "matrícula", "matricula", "license") {
			errs = append(errs, "missing required header: license plate")
		}
	}

	if len(rows) > maxComfortableRows {
		warnings = append(warnings, fmt.Sprintf("file very large (%d rows)", len(rows)))
	}

	return Validation{Valid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

func anyHeaderContains(headers []string, needles ...string) bool {
	for _, h := range headers {
		lh := strings.ToLower(h)
		for _, n := range needles {
			if strings.Contains(lh, n) {
				return true
			}
		}
	}
	return false
}
