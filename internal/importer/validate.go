package importer

import (
	"fmt"
	"time"
)

// ValidateSchema checks the import schema for field-level errors before
// Apply resolves references and commits tasks. Returns every error found,
// not just the first, so a bad import file can be fixed in one pass.
// Reference resolution (does a depends_on entry actually name something,
// is a duplicate name ambiguous as a reference) is checked by Apply, since
// it depends on the state the batch is being applied against.
func ValidateSchema(schema *Schema) []error {
	var errs []error

	seenIDs := map[string]bool{}

	for i, t := range schema.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		if t.DurationHours == nil {
			errs = append(errs, fmt.Errorf("%s.duration_hrs is required", prefix))
		} else if *t.DurationHours < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_hrs must be non-negative", prefix))
		}

		if t.ID != nil {
			if *t.ID == "" {
				errs = append(errs, fmt.Errorf("%s.id must not be empty when present", prefix))
			} else if seenIDs[*t.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q within batch", prefix, *t.ID))
			} else {
				seenIDs[*t.ID] = true
			}
		}

		errs = append(errs, validateOptionalDate(prefix+".deadline", t.Deadline)...)
		errs = append(errs, validateOptionalDate(prefix+".proposed_start", t.ProposedStart)...)
	}

	return errs
}

func validateOptionalDate(field string, s *string) []error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}
