package resolver

import (
	"math"
	"strings"

	"course-bulk/internal/domain"
)

const (
	msgCourseNameRequired = "Course name is required"
	msgPriceRequired      = "Price is required for paid courses"
)

// Validate runs the client-side checks over every course and returns the full
// list of problems, replacing any earlier result. The boolean is true when
// the list is empty.
//
// Batch-level pricing is not checked here; the backend reports it during a
// dry run.
func Validate(courses []domain.CourseItem, defaults domain.GlobalDefaults) ([]domain.ValidationError, bool) {
	var errs []domain.ValidationError
	for i, c := range courses {
		errs = append(errs, ValidateCourse(c, i, defaults)...)
	}
	return errs, len(errs) == 0
}

// ValidateCourse checks a single course at the given row index.
func ValidateCourse(c domain.CourseItem, rowIndex int, defaults domain.GlobalDefaults) []domain.ValidationError {
	var errs []domain.ValidationError

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, domain.ValidationError{
			CourseID: c.ID,
			RowIndex: rowIndex,
			Field:    domain.FieldCourseName,
			Message:  msgCourseNameRequired,
		})
	}

	pay := EffectiveCoursePayment(c, defaults)
	if pay != nil && pay.Type().RequiresPrice() && !priceSet(domain.PaymentPrice(pay)) {
		errs = append(errs, domain.ValidationError{
			CourseID: c.ID,
			RowIndex: rowIndex,
			Field:    domain.FieldPaymentPrice,
			Message:  msgPriceRequired,
		})
	}

	return errs
}

// EffectiveCoursePayment is the payment the validator checks for a course:
// the course payment when its type is set, otherwise the global default
// payment when defaults are enabled, otherwise the course payment as is.
func EffectiveCoursePayment(c domain.CourseItem, defaults domain.GlobalDefaults) domain.PaymentConfig {
	if c.Payment != nil && c.Payment.Type() != "" {
		return c.Payment
	}
	if defaults.Enabled {
		return defaults.Payment
	}
	return c.Payment
}

// priceSet treats 0 as a valid explicit price.
func priceSet(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}
