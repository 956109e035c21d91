package model

import (
	"fmt"
	"strings"
)

// EffectKind is how an upgrade modifies a stat.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type EffectKind string

const (
	// EffectMultiply scales the target stat by Magnitude.
	EffectMultiply EffectKind = "multiply"
	// EffectIncrement adds Magnitude to the target stat.
	EffectIncrement EffectKind = "increment"
)

// Valid reports whether the effect kind is recognized.
func (k EffectKind) Valid() bool {
	return k == EffectMultiply || k == EffectIncrement
}

// UnmarshalText implements encoding.TextUnmarshaler for catalog parsing.
func (k *EffectKind) UnmarshalText(text []byte) error {
	v := EffectKind(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid effect kind: %q", string(text))
	}
	*k = v
	return nil
}

// UpgradeEffect describes the stat change an upgrade applies.
type UpgradeEffect struct {
	Kind      EffectKind `json:"kind"`
	Target    string     `json:"target"`
	Magnitude float64    `json:"magnitude"`
}

// Upgrade is a static catalog entry. The catalog is read-only after load,
// so Upgrade values are safe for unsynchronized concurrent reads.
type Upgrade struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Cost   float64       `json:"cost"`
	Effect UpgradeEffect `json:"effect"`
	// MinTotalXP gates the purchase on total accumulated XP. Zero means no gate.
	MinTotalXP int64 `json:"min_total_xp,omitempty"`
	// Prerequisites are upgrade ids that must already be purchased. The
	// relation over the whole catalog must be acyclic; this is validated
	// once at load time.
	Prerequisites []string `json:"prerequisites,omitempty"`
}

// Validate checks a single catalog entry in isolation. Cross-entry checks
// (dangling prerequisites, cycles) happen at catalog load.
func (u *Upgrade) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("upgrade id is required")
	}
	if u.Cost < 0 {
		return fmt.Errorf("upgrade %s: negative cost", u.ID)
	}
	if !u.Effect.Kind.Valid() {
		return fmt.Errorf("upgrade %s: invalid effect kind %q", u.ID, u.Effect.Kind)
	}
	if u.Effect.Target == "" {
		return fmt.Errorf("upgrade %s: effect target is required", u.ID)
	}
	return nil
}
