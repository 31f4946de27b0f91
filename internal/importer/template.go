// Package importer writes the bulk-create CSV template and turns a filled-in
// template back into course items.
package importer

import (
	"encoding/csv"
	"io"
)

// Fixed course-level columns, in template order.
const (
	HeaderCourseName     = "Course Name"
	HeaderCourseType     = "Course Type (COURSE/MEMBERSHIP/PRODUCT/SERVICE)"
	HeaderTags           = "Tags (comma separated)"
	HeaderDescription    = "Description (HTML allowed)"
	HeaderAboutCourse    = "About the Course (HTML)"
	HeaderWhyLearn       = "Why Learn (HTML)"
	HeaderWhoShouldLearn = "Who Should Learn (HTML)"
)

var fixedHeader = []string{
	HeaderCourseName,
	HeaderCourseType,
	HeaderTags,
	HeaderDescription,
	HeaderAboutCourse,
	HeaderWhyLearn,
	HeaderWhoShouldLearn,
}

// Per-combination column suffixes.
const (
	suffixPrice        = "_price"
	suffixPaymentType  = "_payment_type"
	suffixMaxSlots     = "_max_slots"
	suffixValidityDays = "_validity_days"
)

var comboSuffixes = []string{suffixPrice, suffixPaymentType, suffixMaxSlots, suffixValidityDays}

// Header returns the template header for the given combinations.
func Header(combos []Combination) []string {
	h := append([]string(nil), fixedHeader...)
	for _, c := range combos {
		p := c.Prefix()
		for _, s := range comboSuffixes {
			h = append(h, p+s)
		}
	}
	return h
}

// WriteTemplate writes the header row for the given combinations.
func WriteTemplate(w io.Writer, combos []Combination) error {
	cw := csv.NewWriter(w)
	// match typical templates
	cw.UseCRLF = true

	if err := cw.Write(Header(combos)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
