package domain

import (
	"strings"

	"github.com/google/uuid"
)

// CopySuffix is appended to the name of a duplicated course.
const CopySuffix = " (Copy)"

// CourseContent holds the optional descriptive fields of a course.
type CourseContent struct {
	ThumbnailFileID     string
	PreviewImageMediaID string
	BannerMediaID       string
	MediaID             string
	WhyLearnHTML        string
	WhoShouldLearnHTML  string
	AboutTheCourseHTML  string
	DescriptionHTML     string
	FacultyUserIDs      []string
}

// CourseItem is one row to be bulk-created.
type CourseItem struct {
	ID                 string
	Name               string
	CourseType         CourseType
	Tags               []string
	PublishToCatalogue bool
	Batches            []BatchConfig

	// Course-level fallbacks, shadowed by any batch-level configuration.
	Payment   PaymentConfig
	Inventory *InventoryConfig

	Content     CourseContent
	CourseDepth *int
}

// NewCourseItem returns a course with a fresh ID, type COURSE and FREE payment.
func NewCourseItem() CourseItem {
	return CourseItem{
		ID:         uuid.NewString(),
		CourseType: CourseTypeCourse,
		Payment:    FreePayment(),
	}
}

// Clone returns a deep copy with the same ID.
func (c CourseItem) Clone() CourseItem {
	c.Tags = cloneStrings(c.Tags)
	c.Batches = CloneBatches(c.Batches)
	c.Payment = ClonePayment(c.Payment)
	c.Inventory = c.Inventory.Clone()
	c.Content.FacultyUserIDs = cloneStrings(c.Content.FacultyUserIDs)
	c.CourseDepth = clonePtr(c.CourseDepth)
	return c
}

// Duplicate returns a deep copy with a new ID and the name suffixed.
func (c CourseItem) Duplicate() CourseItem {
	d := c.Clone()
	d.ID = uuid.NewString()
	d.Name = c.Name + CopySuffix
	return d
}

// HasBatch reports whether a batch for the same (level, session) pair exists.
func (c CourseItem) HasBatch(b BatchConfig) bool {
	for _, existing := range c.Batches {
		if existing.SameSlot(b) {
			return true
		}
	}
	return false
}

// NormalizeTags trims tags and drops blanks and case-insensitive duplicates,
// keeping the first spelling and the original order.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
