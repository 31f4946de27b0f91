package domain

// DefaultSlotName is the display name of the ad-hoc level and session used
// when a course has no explicit batch.
const DefaultSlotName = "DEFAULT"

// BatchConfig pairs a level with a session under which a course is offered.
// Nil LevelID/SessionID stand for the DEFAULT pseudo level/session.
type BatchConfig struct {
	LevelID     *string
	SessionID   *string
	LevelName   string
	SessionName string
	Inventory   *InventoryConfig
	Payment     PaymentConfig
}

// DefaultBatch is the implicit batch used when nothing else is configured.
func DefaultBatch() BatchConfig {
	return BatchConfig{
		LevelName:   DefaultSlotName,
		SessionName: DefaultSlotName,
	}
}

// SameSlot reports whether both batches target the same (level, session) pair.
func (b BatchConfig) SameSlot(o BatchConfig) bool {
	return equalID(b.LevelID, o.LevelID) && equalID(b.SessionID, o.SessionID)
}

// Clone returns a deep copy of the batch.
func (b BatchConfig) Clone() BatchConfig {
	b.LevelID = clonePtr(b.LevelID)
	b.SessionID = clonePtr(b.SessionID)
	b.Inventory = b.Inventory.Clone()
	b.Payment = ClonePayment(b.Payment)
	return b
}

// CloneBatches deep-copies a batch list. A nil list stays nil.
func CloneBatches(in []BatchConfig) []BatchConfig {
	if in == nil {
		return nil
	}
	out := make([]BatchConfig, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

func equalID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
