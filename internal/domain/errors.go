package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicateBatch = errors.New("batch for this level and session already exists")
	ErrLastCourse     = errors.New("at least one course must remain")
	ErrCourseNotFound = errors.New("course not found")
	ErrBatchNotFound  = errors.New("batch not found")
)

// Field names used in validation errors.
const (
	FieldCourseName   = "course_name"
	FieldPaymentPrice = "payment_config.price"
)

// ValidationError is one problem found on one course row.
type ValidationError struct {
	CourseID string
	RowIndex int
	Field    string
	Message  string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("row %d: %s: %s", e.RowIndex+1, e.Field, e.Message)
}

// ValidationErrors carries a full validation pass as an error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return "validation: " + e[0].String()
	}
	return fmt.Sprintf("validation: %d errors", len(e))
}

func (e ValidationErrors) Unwrap() error { return ErrValidation }
