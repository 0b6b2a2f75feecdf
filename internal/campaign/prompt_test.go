package campaign

import (
	"strings"
	"testing"

	"github.com/adforge/adforge/internal/model"
)

func fixedParams() Params {
	return Params{
		Product: model.Product{
			ID:          "prod-1",
			Name:        "Widget",
			Category:    "Gadgets",
			Description: "A useful widget",
		},
		Platform:  "Instagram",
		Language:  "English",
		Objective: "Engagement",
		Tone:      "Playful",
		Audience:  "Teens",
	}
}

func TestBuildPromptInterpolatesAllValues(t *testing.T) {
	prompt := BuildPrompt(fixedParams())

	for _, want := range []string{
		"The product name is Widget",
		"category/categories of Gadgets",
		"product description: A useful widget",
		"caption in English",
		"the tone is Playful",
		"aim to achieve Engagement",
		"the target audience is Teens",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	p := fixedParams()
	if BuildPrompt(p) != BuildPrompt(p) {
		t.Error("same params must yield the same prompt")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := fixedParams().Validate(); err != nil {
		t.Fatalf("complete params should validate: %v", err)
	}

	cases := map[string]func(*Params){
		"product":   func(p *Params) { p.Product = model.Product{} },
		"platform":  func(p *Params) { p.Platform = "" },
		"language":  func(p *Params) { p.Language = "  " },
		"objective": func(p *Params) { p.Objective = "" },
		"tone":      func(p *Params) { p.Tone = "" },
		"audience":  func(p *Params) { p.Audience = "" },
	}
	for name, blank := range cases {
		p := fixedParams()
		blank(&p)
		err := p.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if !strings.Contains(err.Error(), name) {
			t.Errorf("%s: error %q should name the missing field", name, err)
		}
	}
}
