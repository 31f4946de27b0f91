// Package resolver turns the editable course list and the global defaults
// into the effective configuration used for previews and for the bulk-create
// request, and validates the list before it is sent.
//
// Precedence, from strongest to weakest:
//
//   - batches: course batches, then enabled global batches, then one
//     implicit DEFAULT batch;
//   - payment and inventory: batch-level configuration shadows the
//     course-level value entirely, per concern; global defaults are never
//     copied onto a course and travel separately in apply_to_all.
//
// Every function in this package is pure: inputs are never modified and
// outputs never alias input slices or pointers.
package resolver

import "course-bulk/internal/domain"

// BatchSource tells where the effective batches of a course came from.
type BatchSource string

const (
	BatchSourceCourse   BatchSource = "course"
	BatchSourceGlobal   BatchSource = "global"
	BatchSourceImplicit BatchSource = "implicit"
)

// ResolveEffectiveBatches returns the batches a course is created under.
// The result is never empty and preserves the order of its source list.
func ResolveEffectiveBatches(course domain.CourseItem, defaults domain.GlobalDefaults) []domain.BatchConfig {
	batches, _ := resolveBatches(course, defaults)
	return batches
}

func resolveBatches(course domain.CourseItem, defaults domain.GlobalDefaults) ([]domain.BatchConfig, BatchSource) {
	if len(course.Batches) > 0 {
		return domain.CloneBatches(course.Batches), BatchSourceCourse
	}
	if defaults.Enabled && len(defaults.Batches) > 0 {
		return domain.CloneBatches(defaults.Batches), BatchSourceGlobal
	}
	return []domain.BatchConfig{domain.DefaultBatch()}, BatchSourceImplicit
}

// anyBatchPayment reports whether a batch overrides course-level payment.
func anyBatchPayment(batches []domain.BatchConfig) bool {
	for _, b := range batches {
		if b.Payment != nil {
			return true
		}
	}
	return false
}

// anyBatchInventory reports whether a batch overrides course-level inventory.
func anyBatchInventory(batches []domain.BatchConfig) bool {
	for _, b := range batches {
		if b.Inventory != nil {
			return true
		}
	}
	return false
}
