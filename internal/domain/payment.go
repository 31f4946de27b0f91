package domain

// PaymentConfig is either a PaymentReference or an InlinePayment.
// A nil PaymentConfig means no payment configuration at that level.
type PaymentConfig interface {
	// Type returns the payment type, which may be empty when unset.
	Type() PaymentType
	isPaymentConfig()
}

// PaymentReference points at a payment option that already exists on the backend.
type PaymentReference struct {
	OptionID    string
	PaymentType PaymentType
}

func (p PaymentReference) Type() PaymentType { return p.PaymentType }
func (PaymentReference) isPaymentConfig()    {}

// InlinePayment defines pricing in place. Nil pointers are absent fields.
type InlinePayment struct {
	PaymentType     PaymentType
	Price           *float64
	ElevatedPrice   *float64
	Currency        string
	ValidityInDays  *int
	RequireApproval *bool
}

func (p InlinePayment) Type() PaymentType { return p.PaymentType }
func (InlinePayment) isPaymentConfig()    {}

// FreePayment is the payment every new course starts with.
func FreePayment() InlinePayment {
	return InlinePayment{PaymentType: PaymentTypeFree}
}

// PaymentPrice returns the inline price, if any. References never carry a price.
func PaymentPrice(p PaymentConfig) *float64 {
	if ip, ok := p.(InlinePayment); ok {
		return ip.Price
	}
	return nil
}

// ClonePayment returns a copy that shares no pointers with p.
func ClonePayment(p PaymentConfig) PaymentConfig {
	switch v := p.(type) {
	case InlinePayment:
		v.Price = clonePtr(v.Price)
		v.ElevatedPrice = clonePtr(v.ElevatedPrice)
		v.ValidityInDays = clonePtr(v.ValidityInDays)
		v.RequireApproval = clonePtr(v.RequireApproval)
		return v
	case PaymentReference:
		return v
	default:
		return nil
	}
}

// InventoryConfig limits seats. A nil MaxSlots means unlimited.
type InventoryConfig struct {
	MaxSlots       *int
	AvailableSlots *int
}

// NewInventory sets max slots and mirrors them into available slots.
func NewInventory(maxSlots *int) *InventoryConfig {
	return &InventoryConfig{
		MaxSlots:       clonePtr(maxSlots),
		AvailableSlots: clonePtr(maxSlots),
	}
}

// Unlimited reports whether no seat limit is set.
func (c *InventoryConfig) Unlimited() bool {
	return c == nil || c.MaxSlots == nil
}

// Clone returns a deep copy; nil stays nil.
func (c *InventoryConfig) Clone() *InventoryConfig {
	if c == nil {
		return nil
	}
	return &InventoryConfig{
		MaxSlots:       clonePtr(c.MaxSlots),
		AvailableSlots: clonePtr(c.AvailableSlots),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
