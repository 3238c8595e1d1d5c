package cli

import (
	"fmt"
	"time"

	"github.com/dagr-project/dagr/internal/dagrerr"
)

const flagDateLayout = "2006-01-02"

// parseFlagDate parses a YYYY-MM-DD CLI flag value into midnight UTC on
// that date, matching the wall-clock-date shape §3 defines for deadlines
// and proposed starts.
func parseFlagDate(field, s string) (time.Time, error) {
	d, err := time.Parse(flagDateLayout, s)
	if err != nil {
		return time.Time{}, dagrerr.InvalidField(field, fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", s))
	}
	return d, nil
}
