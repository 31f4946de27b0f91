package resolver

import "course-bulk/internal/domain"

// CoursePreview is the effective configuration of one course as it will be
// sent, for display before submission.
type CoursePreview struct {
	CourseID    string
	Name        string
	Batches     []domain.BatchConfig
	BatchSource BatchSource

	// Payment is the course-level payment that will be sent; nil when
	// PaymentShadowed is true.
	Payment         domain.PaymentConfig
	PaymentShadowed bool

	Inventory         *domain.InventoryConfig
	InventoryShadowed bool
}

// Preview resolves every course the same way BuildCreationRequest does.
func Preview(courses []domain.CourseItem, defaults domain.GlobalDefaults) []CoursePreview {
	out := make([]CoursePreview, 0, len(courses))
	for _, c := range courses {
		batches, src := resolveBatches(c, defaults)
		p := CoursePreview{
			CourseID:          c.ID,
			Name:              c.Name,
			Batches:           batches,
			BatchSource:       src,
			PaymentShadowed:   anyBatchPayment(batches),
			InventoryShadowed: anyBatchInventory(batches),
		}
		if !p.PaymentShadowed {
			p.Payment = domain.ClonePayment(c.Payment)
		}
		if !p.InventoryShadowed {
			p.Inventory = c.Inventory.Clone()
		}
		out = append(out, p)
	}
	return out
}
