package resolver

import "course-bulk/internal/domain"

// DefaultCurrency is sent for inline prices that do not name a currency.
const DefaultCurrency = "INR"

// PaymentConfigRequest is the wire shape of a payment configuration.
// Absent optional fields are omitted, never sent as zero or null.
type PaymentConfigRequest struct {
	PaymentOptionID string             `json:"payment_option_id,omitempty"`
	PaymentType     domain.PaymentType `json:"payment_type,omitempty"`
	Price           *float64           `json:"price,omitempty"`
	ElevatedPrice   *float64           `json:"elevated_price,omitempty"`
	Currency        string             `json:"currency,omitempty"`
	ValidityInDays  *int               `json:"validity_in_days,omitempty"`
	RequireApproval *bool              `json:"require_approval,omitempty"`
}

// MapPaymentConfig maps a payment configuration to its wire shape.
//
// A reference maps to {payment_option_id, payment_type} only. An inline
// definition maps its pricing fields, with the currency defaulting to INR.
// A reference without an option id is treated as an inline definition of its
// payment type. A nil configuration maps to nil.
func MapPaymentConfig(cfg domain.PaymentConfig) *PaymentConfigRequest {
	switch p := cfg.(type) {
	case domain.PaymentReference:
		if p.OptionID == "" {
			return MapPaymentConfig(domain.InlinePayment{PaymentType: p.PaymentType})
		}
		return &PaymentConfigRequest{
			PaymentOptionID: p.OptionID,
			PaymentType:     p.PaymentType,
		}
	case domain.InlinePayment:
		currency := p.Currency
		if currency == "" {
			currency = DefaultCurrency
		}
		return &PaymentConfigRequest{
			PaymentType:     p.PaymentType,
			Price:           copyPtr(p.Price),
			ElevatedPrice:   copyPtr(p.ElevatedPrice),
			Currency:        currency,
			ValidityInDays:  copyPtr(p.ValidityInDays),
			RequireApproval: copyPtr(p.RequireApproval),
		}
	default:
		return nil
	}
}

// ParsePaymentRequest is the inverse of MapPaymentConfig. A request with a
// payment option id becomes a reference and any inline fields are dropped.
func ParsePaymentRequest(r *PaymentConfigRequest) domain.PaymentConfig {
	if r == nil {
		return nil
	}
	if r.PaymentOptionID != "" {
		return domain.PaymentReference{
			OptionID:    r.PaymentOptionID,
			PaymentType: r.PaymentType,
		}
	}
	return domain.InlinePayment{
		PaymentType:     r.PaymentType,
		Price:           copyPtr(r.Price),
		ElevatedPrice:   copyPtr(r.ElevatedPrice),
		Currency:        r.Currency,
		ValidityInDays:  copyPtr(r.ValidityInDays),
		RequireApproval: copyPtr(r.RequireApproval),
	}
}

// InventoryConfigRequest is the wire shape of an inventory configuration.
// A null max_slots means unlimited, so both fields are always sent.
type InventoryConfigRequest struct {
	MaxSlots       *int `json:"max_slots"`
	AvailableSlots *int `json:"available_slots"`
}

// MapInventoryConfig passes an inventory configuration through; nil stays nil.
func MapInventoryConfig(cfg *domain.InventoryConfig) *InventoryConfigRequest {
	if cfg == nil {
		return nil
	}
	return &InventoryConfigRequest{
		MaxSlots:       copyPtr(cfg.MaxSlots),
		AvailableSlots: copyPtr(cfg.AvailableSlots),
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
