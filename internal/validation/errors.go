package validation

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized             = errors.New("caller is not allowed to validate inspections")
	ErrInspectionNotFound       = errors.New("inspection not found")
	ErrNotValidatable           = errors.New("inspection is not awaiting validation")
	ErrAlreadyValidated         = errors.New("inspection already validated")
	ErrMissingRepairDescription = errors.New("repaired defect requires a repair description")
	ErrInvalidRequest           = errors.New("invalid validation request")
	ErrDownstreamWrite          = errors.New("downstream write failed")
)

// MissingRepairDescriptionError points at the defect whose repair note is missing.
type MissingRepairDescriptionError struct {
	Index int
}

func (e *MissingRepairDescriptionError) Error() string {
	return fmt.Sprintf("defect %d: %s", e.Index, ErrMissingRepairDescription)
}

// Is makes errors.Is(err, ErrMissingRepairDescription) match.
func (e *MissingRepairDescriptionError) Is(target error) bool {
	return target == ErrMissingRepairDescription
}
