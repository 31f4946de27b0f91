package importer

import (
	"fmt"
	"strings"
	"unicode"

	"course-bulk/internal/domain"
)

// Combination is one (level, session) pairing selected for the template.
// Nil ids stand for the DEFAULT pseudo level/session.
type Combination struct {
	LevelID     *string
	LevelName   string
	SessionID   *string
	SessionName string
}

// Prefix is the column prefix "{levelSlug}_{sessionSlug}".
func (c Combination) Prefix() string {
	return Slug(c.LevelName) + "_" + Slug(c.SessionName)
}

// Batch returns the bare batch for the combination.
func (c Combination) Batch() domain.BatchConfig {
	return domain.BatchConfig{
		LevelID:     c.LevelID,
		SessionID:   c.SessionID,
		LevelName:   c.LevelName,
		SessionName: c.SessionName,
	}
}

// Slug lowercases s and collapses every run of other characters into a
// single underscore. An empty result becomes "default".
func Slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

// ParseCombinations reads a comma separated list of
// "levelID:Level Name/sessionID:Session Name". A part without a colon is used
// as both id and name; an empty id selects DEFAULT. Each column prefix and
// each (level, session) id pair may appear only once.
func ParseCombinations(s string) ([]Combination, error) {
	var out []Combination
	seen := map[string]bool{}
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		level, session, ok := strings.Cut(raw, "/")
		if !ok {
			return nil, fmt.Errorf("importer: combination %q: want level/session", raw)
		}
		var c Combination
		c.LevelID, c.LevelName = parseSlot(level)
		c.SessionID, c.SessionName = parseSlot(session)

		key := c.Prefix()
		if seen[key] {
			return nil, fmt.Errorf("importer: combination %q repeats columns %s_*", raw, key)
		}
		seen[key] = true
		out = append(out, c)
		if err := uniqueSlots(out); err != nil {
			return nil, fmt.Errorf("importer: combination %q: %w", raw, err)
		}
	}
	return out, nil
}

// uniqueSlots rejects two combinations targeting the same (level, session)
// id pair.
func uniqueSlots(combos []Combination) error {
	for i := range combos {
		for j := i + 1; j < len(combos); j++ {
			if combos[i].Batch().SameSlot(combos[j].Batch()) {
				return domain.ErrDuplicateBatch
			}
		}
	}
	return nil
}

func parseSlot(s string) (*string, string) {
	id, name, hasName := strings.Cut(strings.TrimSpace(s), ":")
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if !hasName {
		name = id
	}
	if id == "" || strings.EqualFold(id, domain.DefaultSlotName) {
		if name == "" {
			name = domain.DefaultSlotName
		}
		return nil, name
	}
	if name == "" {
		name = id
	}
	return &id, name
}
