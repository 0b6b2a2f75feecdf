package model

import (
	"slices"
	"time"
)

// Picker options, in display order.
var (
	Platforms  = []string{"Facebook", "Instagram", "Twitter", "LinkedIn"}
	Objectives = []string{"Brand Awareness", "Engagement", "Conversions", "Lead Generation"}
	Tones      = []string{"Playful", "Professional", "Inspirational", "Informative", "Friendly"}
)

func ValidPlatform(s string) bool  { return slices.Contains(Platforms, s) }
func ValidObjective(s string) bool { return slices.Contains(Objectives, s) }
func ValidTone(s string) bool      { return slices.Contains(Tones, s) }

// Campaign is a saved, generated caption for one product. Rows are written
// once after an accepted generation and never edited or deleted.
type Campaign struct {
	ID             string    `json:"id,omitempty"`
	UserID         string    `json:"user_id"`
	ProductID      string    `json:"product_id"`
	Platform       string    `json:"platform"`
	Language       string    `json:"language"`
	Objective      string    `json:"objective"`
	Tone           string    `json:"tone"`
	TargetAudience string    `json:"target_audience"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}
