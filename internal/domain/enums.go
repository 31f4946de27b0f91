package domain

import "strings"

// CourseType is the kind of package created for a course item.
type CourseType string

const (
	CourseTypeCourse     CourseType = "COURSE"
	CourseTypeMembership CourseType = "MEMBERSHIP"
	CourseTypeProduct    CourseType = "PRODUCT"
	CourseTypeService    CourseType = "SERVICE"
)

// CourseTypes lists every valid CourseType in template order.
var CourseTypes = []CourseType{
	CourseTypeCourse,
	CourseTypeMembership,
	CourseTypeProduct,
	CourseTypeService,
}

func (t CourseType) String() string { return string(t) }

func (t CourseType) IsValid() bool {
	switch t {
	case CourseTypeCourse, CourseTypeMembership, CourseTypeProduct, CourseTypeService:
		return true
	}
	return false
}

// ParseCourseType accepts any casing and surrounding whitespace.
func ParseCourseType(s string) (CourseType, bool) {
	t := CourseType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// PaymentType is the pricing model of a payment option.
type PaymentType string

const (
	PaymentTypeFree         PaymentType = "FREE"
	PaymentTypeOneTime      PaymentType = "ONE_TIME"
	PaymentTypeSubscription PaymentType = "SUBSCRIPTION"
	PaymentTypeDonation     PaymentType = "DONATION"
)

func (t PaymentType) String() string { return string(t) }

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeFree, PaymentTypeOneTime, PaymentTypeSubscription, PaymentTypeDonation:
		return true
	}
	return false
}

// RequiresPrice reports whether a price must be present for this type.
func (t PaymentType) RequiresPrice() bool {
	return t == PaymentTypeOneTime || t == PaymentTypeSubscription
}

// ParsePaymentType accepts any casing, and "-" or " " in place of "_".
func ParsePaymentType(s string) (PaymentType, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	t := PaymentType(v)
	return t, t.IsValid()
}
