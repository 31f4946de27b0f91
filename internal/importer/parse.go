package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"course-bulk/internal/domain"
)

// ErrNoNameColumn is returned when the header lacks the course name column.
var ErrNoNameColumn = errors.New("importer: missing \"Course Name\" column")

// Issue is a cell the importer could not use as written. The row is still
// imported with the cell treated as blank or defaulted.
type Issue struct {
	Line    int
	Column  string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Column, i.Message)
}

// Result is the outcome of an import.
type Result struct {
	Courses []domain.CourseItem
	// Skipped lists the lines ignored because the course name was blank.
	Skipped []int
	Issues  []Issue
}

// Parse reads a filled-in template. Fixed columns are matched by their label
// before any " (" hint, ignoring case; combination columns by exact prefix.
// Every combination yields one batch per course.
func Parse(r io.Reader, combos []Combination) (*Result, error) {
	if err := uniqueSlots(combos); err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoNameColumn
	}
	if err != nil {
		return nil, fmt.Errorf("importer: header: %w", err)
	}
	cols := indexHeader(header)
	if _, ok := cols[columnKey(HeaderCourseName)]; !ok {
		return nil, ErrNoNameColumn
	}

	res := &Result{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: %w", err)
		}
		line, _ := cr.FieldPos(0)
		row := rowReader{rec: rec, cols: cols, line: line, res: res}

		name := strings.TrimSpace(row.get(HeaderCourseName))
		if name == "" {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		res.Courses = append(res.Courses, row.course(name, combos))
	}
	return res, nil
}

// columnKey normalises a header label: "Tags (comma separated)" -> "tags".
func columnKey(label string) string {
	label = strings.TrimPrefix(label, "\ufeff")
	if i := strings.Index(label, " ("); i >= 0 {
		label = label[:i]
	}
	return strings.ToLower(strings.TrimSpace(label))
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		k := columnKey(h)
		if _, dup := cols[k]; !dup {
			cols[k] = i
		}
	}
	return cols
}

type rowReader struct {
	rec  []string
	cols map[string]int
	line int
	res  *Result
}

func (r rowReader) get(label string) string {
	i, ok := r.cols[columnKey(label)]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r rowReader) issue(column, format string, args ...any) {
	r.res.Issues = append(r.res.Issues, Issue{Line: r.line, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (r rowReader) course(name string, combos []Combination) domain.CourseItem {
	c := domain.NewCourseItem()
	c.Name = name

	if raw := r.get(HeaderCourseType); raw != "" {
		if t, ok := domain.ParseCourseType(raw); ok {
			c.CourseType = t
		} else {
			r.issue(HeaderCourseType, "unknown course type %q, using %s", raw, domain.CourseTypeCourse)
		}
	}
	c.Tags = domain.NormalizeTags(strings.Split(r.get(HeaderTags), ","))
	c.Content.DescriptionHTML = r.get(HeaderDescription)
	c.Content.AboutTheCourseHTML = r.get(HeaderAboutCourse)
	c.Content.WhyLearnHTML = r.get(HeaderWhyLearn)
	c.Content.WhoShouldLearnHTML = r.get(HeaderWhoShouldLearn)

	for _, combo := range combos {
		c.Batches = append(c.Batches, r.batch(combo))
	}
	return c
}

func (r rowReader) batch(combo Combination) domain.BatchConfig {
	b := combo.Batch()
	p := combo.Prefix()

	price := r.floatCell(p + suffixPrice)
	maxSlots := r.intCell(p + suffixMaxSlots)
	validity := r.intCell(p + suffixValidityDays)

	pt := domain.PaymentTypeFree
	if price != nil && *price > 0 {
		pt = domain.PaymentTypeOneTime
	}
	col := p + suffixPaymentType
	if raw := r.get(col); raw != "" {
		if t, ok := domain.ParsePaymentType(raw); ok {
			pt = t
		} else {
			r.issue(col, "unknown payment type %q, using %s", raw, pt)
		}
	}
	if pt.RequiresPrice() && price == nil {
		r.issue(p+suffixPrice, "price is required for %s", pt)
	}

	b.Payment = domain.InlinePayment{
		PaymentType:    pt,
		Price:          price,
		ValidityInDays: validity,
	}
	if maxSlots != nil {
		b.Inventory = domain.NewInventory(maxSlots)
	}
	return b
}

func (r rowReader) floatCell(col string) *float64 {
	raw := r.get(col)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		r.issue(col, "invalid number %q", raw)
		return nil
	}
	return &v
}

func (r rowReader) intCell(col string) *int {
	raw := r.get(col)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		r.issue(col, "invalid whole number %q", raw)
		return nil
	}
	return &v
}
