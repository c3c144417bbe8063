package accordion

import "errors"

// Errors returned by the calculator and its measurers.
var (
	ErrNoSections         = errors.New("accordion: no sections")
	ErrSectionOutOfRange  = errors.New("accordion: section index out of range")
	ErrNotMeasured        = errors.New("accordion: section has not been measured")
	ErrNotLaidOut         = errors.New("accordion: section content is not laid out")
	ErrInvalidMeasurement = errors.New("accordion: invalid measured height")
)
