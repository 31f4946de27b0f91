// Package defaults loads a global-defaults profile from YAML.
//
//	enabled: true
//	course_type: COURSE
//	tags: [onboarding]
//	payment: {payment_type: ONE_TIME, price: 499, currency: INR}
//	inventory: {max_slots: 30}
//	batches:
//	  - {level_id: L1, level_name: Beginner, session_id: S1, session_name: Fall}
package defaults

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"course-bulk/internal/domain"
)

type profile struct {
	Enabled            bool              `yaml:"enabled"`
	CourseType         string            `yaml:"course_type"`
	CourseDepth        *int              `yaml:"course_depth"`
	Tags               []string          `yaml:"tags"`
	PublishToCatalogue bool              `yaml:"publish_to_catalogue"`
	Payment            *paymentProfile   `yaml:"payment"`
	Inventory          *inventoryProfile `yaml:"inventory"`
	Batches            []batchProfile    `yaml:"batches"`
}

type paymentProfile struct {
	PaymentOptionID string   `yaml:"payment_option_id"`
	PaymentType     string   `yaml:"payment_type"`
	Price           *float64 `yaml:"price"`
	ElevatedPrice   *float64 `yaml:"elevated_price"`
	Currency        string   `yaml:"currency"`
	ValidityInDays  *int     `yaml:"validity_in_days"`
	RequireApproval *bool    `yaml:"require_approval"`
}

type inventoryProfile struct {
	MaxSlots *int `yaml:"max_slots"`
}

type batchProfile struct {
	LevelID     string            `yaml:"level_id"`
	LevelName   string            `yaml:"level_name"`
	SessionID   string            `yaml:"session_id"`
	SessionName string            `yaml:"session_name"`
	Payment     *paymentProfile   `yaml:"payment"`
	Inventory   *inventoryProfile `yaml:"inventory"`
}

// Load reads the profile at path.
func Load(path string) (domain.GlobalDefaults, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.GlobalDefaults{}, fmt.Errorf("defaults: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a profile. Unknown keys are rejected.
func Parse(r io.Reader) (domain.GlobalDefaults, error) {
	var p profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return domain.GlobalDefaults{}, fmt.Errorf("defaults: decode: %w", err)
	}
	return p.toDomain()
}

func (p profile) toDomain() (domain.GlobalDefaults, error) {
	g := domain.GlobalDefaults{
		Enabled:            p.Enabled,
		CourseDepth:        p.CourseDepth,
		Tags:               domain.NormalizeTags(p.Tags),
		PublishToCatalogue: p.PublishToCatalogue,
	}

	if p.CourseType != "" {
		t, ok := domain.ParseCourseType(p.CourseType)
		if !ok {
			return domain.GlobalDefaults{}, fmt.Errorf("defaults: course_type %q", p.CourseType)
		}
		g.CourseType = t
	}

	var err error
	if g.Payment, err = p.Payment.toDomain("payment"); err != nil {
		return domain.GlobalDefaults{}, err
	}
	g.Inventory = p.Inventory.toDomain()

	for i, b := range p.Batches {
		bc := domain.BatchConfig{
			LevelID:     optionalID(b.LevelID),
			SessionID:   optionalID(b.SessionID),
			LevelName:   nameOr(b.LevelName, b.LevelID),
			SessionName: nameOr(b.SessionName, b.SessionID),
			Inventory:   b.Inventory.toDomain(),
		}
		if bc.Payment, err = b.Payment.toDomain(fmt.Sprintf("batches[%d].payment", i)); err != nil {
			return domain.GlobalDefaults{}, err
		}
		for _, prev := range g.Batches {
			if prev.SameSlot(bc) {
				return domain.GlobalDefaults{}, fmt.Errorf("defaults: batches[%d]: %w", i, domain.ErrDuplicateBatch)
			}
		}
		g.Batches = append(g.Batches, bc)
	}
	return g, nil
}

func (pp *paymentProfile) toDomain(field string) (domain.PaymentConfig, error) {
	if pp == nil {
		return nil, nil
	}
	pt := domain.PaymentTypeFree
	if pp.PaymentType != "" {
		t, ok := domain.ParsePaymentType(pp.PaymentType)
		if !ok {
			return nil, fmt.Errorf("defaults: %s.payment_type %q", field, pp.PaymentType)
		}
		pt = t
	}
	if pp.PaymentOptionID != "" {
		return domain.PaymentReference{OptionID: pp.PaymentOptionID, PaymentType: pt}, nil
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"price", pp.Price}, {"elevated_price", pp.ElevatedPrice}} {
		if v := f.v; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0) {
			return nil, fmt.Errorf("defaults: %s.%s must be a non-negative number", field, f.name)
		}
	}
	return domain.InlinePayment{
		PaymentType:     pt,
		Price:           pp.Price,
		ElevatedPrice:   pp.ElevatedPrice,
		Currency:        pp.Currency,
		ValidityInDays:  pp.ValidityInDays,
		RequireApproval: pp.RequireApproval,
	}, nil
}

func (ir *inventoryProfile) toDomain() *domain.InventoryConfig {
	if ir == nil {
		return nil
	}
	return domain.NewInventory(ir.MaxSlots)
}

func optionalID(id string) *string {
	if id == "" || id == domain.DefaultSlotName {
		return nil
	}
	return &id
}

func nameOr(name, id string) string {
	switch {
	case name != "":
		return name
	case id != "":
		return id
	default:
		return domain.DefaultSlotName
	}
}
