// Package draft holds the editable course list of one bulk-create session.
//
// A Draft is owned by a single caller and is not safe for concurrent use.
package draft

import (
	"fmt"
	"slices"

	"course-bulk/internal/domain"
	"course-bulk/internal/resolver"
)

// Draft is the in-memory configuration tree: the courses being prepared, the
// global defaults, and the latest validation errors.
type Draft struct {
	courses  []domain.CourseItem
	defaults domain.GlobalDefaults
	errors   []domain.ValidationError
}

// New starts a draft with one empty course.
func New(defaults domain.GlobalDefaults) *Draft {
	return &Draft{
		courses:  []domain.CourseItem{domain.NewCourseItem()},
		defaults: defaults.Clone(),
	}
}

// FromCourses starts a draft from an imported list. An empty list yields one
// empty course, since a draft always holds at least one.
func FromCourses(courses []domain.CourseItem, defaults domain.GlobalDefaults) *Draft {
	if len(courses) == 0 {
		return New(defaults)
	}
	d := &Draft{defaults: defaults.Clone()}
	for _, c := range courses {
		d.courses = append(d.courses, c.Clone())
	}
	return d
}

// Courses returns a deep copy of the course list.
func (d *Draft) Courses() []domain.CourseItem {
	out := make([]domain.CourseItem, len(d.courses))
	for i, c := range d.courses {
		out[i] = c.Clone()
	}
	return out
}

// Len returns the number of courses.
func (d *Draft) Len() int { return len(d.courses) }

// Course returns a copy of the course with the given id.
func (d *Draft) Course(id string) (domain.CourseItem, error) {
	i, err := d.index(id)
	if err != nil {
		return domain.CourseItem{}, err
	}
	return d.courses[i].Clone(), nil
}

// Defaults returns a copy of the global defaults.
func (d *Draft) Defaults() domain.GlobalDefaults { return d.defaults.Clone() }

// SetDefaults replaces the global defaults.
func (d *Draft) SetDefaults(g domain.GlobalDefaults) { d.defaults = g.Clone() }

// AddCourse appends a fresh course and returns its id.
func (d *Draft) AddCourse(updates ...domain.Update) string {
	c := domain.NewCourseItem()
	domain.ApplyUpdates(&c, updates...)
	d.courses = append(d.courses, c)
	return c.ID
}

// RemoveCourse deletes a course. The last remaining course cannot be removed.
func (d *Draft) RemoveCourse(id string) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	if len(d.courses) == 1 {
		return domain.ErrLastCourse
	}
	d.courses = slices.Delete(d.courses, i, i+1)
	d.dropErrors(id)
	d.reindexErrors()
	return nil
}

// DuplicateCourse inserts a deep copy right after the original and returns
// the id of the copy.
func (d *Draft) DuplicateCourse(id string) (string, error) {
	i, err := d.index(id)
	if err != nil {
		return "", err
	}
	dup := d.courses[i].Duplicate()
	d.courses = slices.Insert(d.courses, i+1, dup)
	d.reindexErrors()
	return dup.ID, nil
}

// Apply edits a course and replaces its validation errors with a fresh pass
// over the edited course.
func (d *Draft) Apply(id string, updates ...domain.Update) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	domain.ApplyUpdates(&d.courses[i], updates...)
	d.revalidate(i)
	return nil
}

// AddBatch attaches a batch to a course, rejecting a (level, session) pair
// the course already has.
func (d *Draft) AddBatch(id string, b domain.BatchConfig) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	if d.courses[i].HasBatch(b) {
		return fmt.Errorf("%w: level=%s session=%s", domain.ErrDuplicateBatch, idOrDefault(b.LevelID), idOrDefault(b.SessionID))
	}
	d.courses[i].Batches = append(d.courses[i].Batches, b.Clone())
	return nil
}

// RemoveBatch detaches the batch at position pos.
func (d *Draft) RemoveBatch(id string, pos int) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(d.courses[i].Batches) {
		return fmt.Errorf("%w: index %d", domain.ErrBatchNotFound, pos)
	}
	d.courses[i].Batches = slices.Delete(d.courses[i].Batches, pos, pos+1)
	return nil
}

// Validate runs a full pass and replaces every stored error.
func (d *Draft) Validate() bool {
	errs, ok := resolver.Validate(d.courses, d.defaults)
	d.errors = errs
	return ok
}

// Errors returns the stored validation errors.
func (d *Draft) Errors() []domain.ValidationError {
	return slices.Clone(d.errors)
}

// Preview resolves the effective configuration of every course.
func (d *Draft) Preview() []resolver.CoursePreview {
	return resolver.Preview(d.courses, d.defaults)
}

// Request builds the bulk-create request for the current state.
func (d *Draft) Request(dryRun bool) resolver.CreationRequest {
	return resolver.BuildCreationRequest(d.courses, d.defaults, dryRun)
}

func (d *Draft) index(id string) (int, error) {
	for i, c := range d.courses {
		if c.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, id)
}

func (d *Draft) revalidate(i int) {
	c := d.courses[i]
	d.dropErrors(c.ID)
	d.errors = append(d.errors, resolver.ValidateCourse(c, i, d.defaults)...)
	slices.SortStableFunc(d.errors, func(a, b domain.ValidationError) int {
		return a.RowIndex - b.RowIndex
	})
}

func (d *Draft) dropErrors(courseID string) {
	d.errors = slices.DeleteFunc(d.errors, func(e domain.ValidationError) bool {
		return e.CourseID == courseID
	})
}

// reindexErrors keeps RowIndex in step with course positions after the list
// changes shape.
func (d *Draft) reindexErrors() {
	pos := make(map[string]int, len(d.courses))
	for i, c := range d.courses {
		pos[c.ID] = i
	}
	for i := range d.errors {
		if p, ok := pos[d.errors[i].CourseID]; ok {
			d.errors[i].RowIndex = p
		}
	}
}

func idOrDefault(id *string) string {
	if id == nil {
		return domain.DefaultSlotName
	}
	return *id
}
