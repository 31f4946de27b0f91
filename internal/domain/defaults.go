package domain

// GlobalDefaults is the fallback configuration for courses and batches that
// do not specify their own.
type GlobalDefaults struct {
	Enabled            bool
	Batches            []BatchConfig
	Payment            PaymentConfig
	Inventory          *InventoryConfig
	CourseType         CourseType
	CourseDepth        *int
	Tags               []string
	PublishToCatalogue bool
}

// Clone returns a deep copy of the defaults.
func (g GlobalDefaults) Clone() GlobalDefaults {
	g.Batches = CloneBatches(g.Batches)
	g.Payment = ClonePayment(g.Payment)
	g.Inventory = g.Inventory.Clone()
	g.CourseDepth = clonePtr(g.CourseDepth)
	g.Tags = cloneStrings(g.Tags)
	return g
}
