package domain

import "errors"

// Failure categories for the label run. Every error the pipeline surfaces
// wraps one of these; none is recovered locally — a run either completes or
// exits without output.
var (
	// ErrParse marks a malformed observation filename or catalog field.
	ErrParse = errors.New("parse error")

	// ErrInputContract marks inputs that violate the caller's side of the
	// contract: an empty observations directory, an unreadable domain file,
	// a catalog missing required columns.
	ErrInputContract = errors.New("input contract violation")

	// ErrSchemaAssumption marks an internal consistency check failure, such
	// as the aligned join producing fewer rows than there are observations.
	// It signals a logic or data inconsistency rather than bad input.
	ErrSchemaAssumption = errors.New("schema assumption violation")
)
