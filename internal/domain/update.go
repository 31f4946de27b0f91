package domain

// Update is a typed edit of a single course field.
type Update interface {
	apply(c *CourseItem)
}

// ApplyUpdates applies updates to c in order.
func ApplyUpdates(c *CourseItem, updates ...Update) {
	for _, u := range updates {
		if u != nil {
			u.apply(c)
		}
	}
}

type SetName string

func (u SetName) apply(c *CourseItem) { c.Name = string(u) }

type SetCourseType CourseType

func (u SetCourseType) apply(c *CourseItem) { c.CourseType = CourseType(u) }

// SetTags replaces the tag list; tags are normalized.
type SetTags []string

func (u SetTags) apply(c *CourseItem) { c.Tags = NormalizeTags(u) }

// AddTag appends a tag unless an equal one is already present.
type AddTag string

func (u AddTag) apply(c *CourseItem) {
	c.Tags = NormalizeTags(append(cloneStrings(c.Tags), string(u)))
}

type SetPublish bool

func (u SetPublish) apply(c *CourseItem) { c.PublishToCatalogue = bool(u) }

// SetPayment replaces the course-level payment. A nil Config clears it.
type SetPayment struct {
	Config PaymentConfig
}

func (u SetPayment) apply(c *CourseItem) { c.Payment = ClonePayment(u.Config) }

// SetMaxSlots replaces the course-level inventory; available slots mirror max.
// A nil value means unlimited.
type SetMaxSlots struct {
	MaxSlots *int
}

func (u SetMaxSlots) apply(c *CourseItem) { c.Inventory = NewInventory(u.MaxSlots) }

// ClearInventory removes the course-level inventory.
type ClearInventory struct{}

func (ClearInventory) apply(c *CourseItem) { c.Inventory = nil }

type SetCourseDepth struct {
	Depth *int
}

func (u SetCourseDepth) apply(c *CourseItem) { c.CourseDepth = clonePtr(u.Depth) }

type SetContent CourseContent

func (u SetContent) apply(c *CourseItem) {
	c.Content = CourseContent(u)
	c.Content.FacultyUserIDs = cloneStrings(u.FacultyUserIDs)
}
