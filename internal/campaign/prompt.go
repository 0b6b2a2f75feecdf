// Package campaign drives caption generation: prompt construction, the
// generate/edit/save workflow, and its persistence boundary.
package campaign

import (
	"fmt"
	"strings"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/model"
)

// Params are the six inputs a caption is generated from. All are required.
type Params struct {
	Product   model.Product
	Platform  string
	Language  string
	Objective string
	Tone      string
	Audience  string
}

func (p Params) Validate() error {
	var missing []string
	if p.Product.ID == "" || p.Product.Name == "" {
		missing = append(missing, "product")
	}
	if strings.TrimSpace(p.Platform) == "" {
		missing = append(missing, "platform")
	}
	if strings.TrimSpace(p.Language) == "" {
		missing = append(missing, "language")
	}
	if strings.TrimSpace(p.Objective) == "" {
		missing = append(missing, "objective")
	}
	if strings.TrimSpace(p.Tone) == "" {
		missing = append(missing, "tone")
	}
	if strings.TrimSpace(p.Audience) == "" {
		missing = append(missing, "audience")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), apperr.ErrValidation)
	}
	return nil
}

const promptTemplate = "I need a social media campaign caption. " +
	"The product name is %s, and it falls under the category/categories of %s. " +
	"Here's the product description: %s. " +
	"Please write the caption in %s and make sure the tone is %s. " +
	"The caption should aim to achieve %s, and the target audience is %s."

// BuildPrompt interpolates the generation instruction. The template is fixed:
// the same params always yield the same prompt.
func BuildPrompt(p Params) string {
	return fmt.Sprintf(promptTemplate,
		p.Product.Name,
		p.Product.Category,
		p.Product.Description,
		p.Language,
		p.Tone,
		p.Objective,
		p.Audience,
	)
}
