package draft

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-bulk/internal/domain"
)

func TestNew_StartsWithOneCourse(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})

	require.Equal(t, 1, d.Len())
	assert.Equal(t, domain.CourseTypeCourse, d.Courses()[0].CourseType)
}

func TestFromCourses_EmptyFallsBackToOne(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, FromCourses(nil, domain.GlobalDefaults{}).Len())

	a, b := domain.NewCourseItem(), domain.NewCourseItem()
	assert.Equal(t, 2, FromCourses([]domain.CourseItem{a, b}, domain.GlobalDefaults{}).Len())
}

func TestRemoveCourse_KeepsLast(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	first := d.Courses()[0].ID
	second := d.AddCourse(domain.SetName("Second"))

	require.NoError(t, d.RemoveCourse(first))
	assert.Equal(t, 1, d.Len())

	err := d.RemoveCourse(second)
	assert.ErrorIs(t, err, domain.ErrLastCourse)
	assert.Equal(t, 1, d.Len())

	assert.ErrorIs(t, d.RemoveCourse("missing"), domain.ErrCourseNotFound)
}

func TestDuplicateCourse(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	orig := d.Courses()[0].ID
	require.NoError(t, d.Apply(orig, domain.SetName("Intro"), domain.SetTags{"go"}))
	tail := d.AddCourse(domain.SetName("Tail"))

	dupID, err := d.DuplicateCourse(orig)
	require.NoError(t, err)

	courses := d.Courses()
	require.Len(t, courses, 3)
	assert.Equal(t, orig, courses[0].ID)
	assert.Equal(t, dupID, courses[1].ID)
	assert.Equal(t, "Intro (Copy)", courses[1].Name)
	assert.Equal(t, []string{"go"}, courses[1].Tags)
	assert.Equal(t, tail, courses[2].ID)
}

func TestAddBatch_DuplicateGuard(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	id := d.Courses()[0].ID

	require.NoError(t, d.AddBatch(id, domain.BatchConfig{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S1")}))

	err := d.AddBatch(id, domain.BatchConfig{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S1"), LevelName: "other name"})
	assert.ErrorIs(t, err, domain.ErrDuplicateBatch)
	assert.Contains(t, err.Error(), "level=L1 session=S1")

	require.NoError(t, d.AddBatch(id, domain.BatchConfig{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S2")}))

	require.NoError(t, d.AddBatch(id, domain.DefaultBatch()))
	assert.ErrorIs(t, d.AddBatch(id, domain.DefaultBatch()), domain.ErrDuplicateBatch)

	c, err := d.Course(id)
	require.NoError(t, err)
	assert.Len(t, c.Batches, 3)
}

func TestAddBatch_NotPartOfValidate(t *testing.T) {
	t.Parallel()

	c := domain.NewCourseItem()
	c.Name = "Imported"
	c.Batches = []domain.BatchConfig{
		{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S1")},
		{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S1")},
	}
	d := FromCourses([]domain.CourseItem{c}, domain.GlobalDefaults{})

	assert.True(t, d.Validate())
}

func TestRemoveBatch(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	id := d.Courses()[0].ID
	require.NoError(t, d.AddBatch(id, domain.BatchConfig{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S1")}))

	assert.ErrorIs(t, d.RemoveBatch(id, 3), domain.ErrBatchNotFound)
	require.NoError(t, d.RemoveBatch(id, 0))

	c, _ := d.Course(id)
	assert.Empty(t, c.Batches)
}

func TestApply_ReplacesErrorsForEditedCourse(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	first := d.Courses()[0].ID
	second := d.AddCourse()

	assert.False(t, d.Validate())
	require.Len(t, d.Errors(), 2)

	require.NoError(t, d.Apply(first, domain.SetName("Named"), domain.SetPayment{Config: domain.InlinePayment{PaymentType: domain.PaymentTypeOneTime}}))

	errs := d.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, first, errs[0].CourseID)
	assert.Equal(t, domain.FieldPaymentPrice, errs[0].Field)
	assert.Equal(t, second, errs[1].CourseID)
	assert.Equal(t, domain.FieldCourseName, errs[1].Field)

	require.NoError(t, d.Apply(first, domain.SetPayment{Config: domain.InlinePayment{PaymentType: domain.PaymentTypeOneTime, Price: domain.Ptr(0.0)}}))
	require.Len(t, d.Errors(), 1)

	require.NoError(t, d.Apply(second, domain.SetName("Also named")))
	assert.Empty(t, d.Errors())

	assert.ErrorIs(t, d.Apply("missing", domain.SetName("x")), domain.ErrCourseNotFound)
}

func TestRemoveCourse_ReindexesErrors(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	first := d.Courses()[0].ID
	require.NoError(t, d.Apply(first, domain.SetName("ok")))
	second := d.AddCourse()

	d.Validate()
	require.Len(t, d.Errors(), 1)
	assert.Equal(t, 1, d.Errors()[0].RowIndex)

	require.NoError(t, d.RemoveCourse(first))
	require.Len(t, d.Errors(), 1)
	assert.Equal(t, second, d.Errors()[0].CourseID)
	assert.Equal(t, 0, d.Errors()[0].RowIndex)
}

func TestRequest_UsesDefaults(t *testing.T) {
	t.Parallel()

	defaults := domain.GlobalDefaults{
		Enabled: true,
		Batches: []domain.BatchConfig{{LevelID: domain.Ptr("L1"), SessionID: domain.Ptr("S1")}},
	}
	d := New(defaults)
	require.NoError(t, d.Apply(d.Courses()[0].ID, domain.SetName("Course")))

	req := d.Request(true)

	assert.True(t, req.DryRun)
	require.Len(t, req.Courses, 1)
	assert.Equal(t, "L1", *req.Courses[0].Batches[0].LevelID)
	assert.True(t, req.ApplyToAll.Enabled)

	d.SetDefaults(domain.GlobalDefaults{})
	req = d.Request(false)
	assert.Nil(t, req.Courses[0].Batches[0].LevelID)
	assert.False(t, d.Defaults().Enabled)

	previews := d.Preview()
	require.Len(t, previews, 1)
}

func TestCourses_ReturnsCopies(t *testing.T) {
	t.Parallel()

	d := New(domain.GlobalDefaults{})
	id := d.Courses()[0].ID
	require.NoError(t, d.Apply(id, domain.SetTags{"a"}))

	cs := d.Courses()
	cs[0].Tags[0] = "changed"

	c, err := d.Course(id)
	require.NoError(t, err)
	assert.Equal(t, "a", c.Tags[0])
	assert.False(t, errors.Is(err, domain.ErrCourseNotFound))
}
