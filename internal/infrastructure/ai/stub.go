package ai

import (
	"context"

	generationapp "github.com/agencyhub/backend/internal/application/generation"
)

// Ensure StubGenerator implements ContentGenerator
var _ generationapp.ContentGenerator = (*StubGenerator)(nil)

// StubGenerator returns canned outputs with a fixed token cost per step.
// Use it for development and tests without an API key.
type StubGenerator struct {
	// TokensPerStep is reported as completion tokens on every call
	TokensPerStep int
	// Err, when set, is returned by every call
	Err error
}

// NewStubGenerator creates a StubGenerator with a small fixed cost
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{TokensPerStep: 100}
}

func (g *StubGenerator) usage() generationapp.Usage {
	return generationapp.Usage{PromptTokens: 0, CompletionTokens: g.TokensPerStep}
}

// GenerateIdea returns a canned campaign concept
func (g *StubGenerator) GenerateIdea(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.IdeaOutput, generationapp.Usage, error) {
	if g.Err != nil {
		return nil, generationapp.Usage{}, g.Err
	}
	return &generationapp.IdeaOutput{
		Concept:  "Show the people behind the product",
		Angles:   []string{"behind the scenes", "customer stories", "founder notes"},
		Audience: "existing followers and warm leads",
	}, g.usage(), nil
}

// GenerateCopy returns canned post copy
func (g *StubGenerator) GenerateCopy(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.CopyOutput, generationapp.Usage, error) {
	if g.Err != nil {
		return nil, generationapp.Usage{}, g.Err
	}
	return &generationapp.CopyOutput{
		Title:    "Meet the team",
		Body:     "Every order is packed by hand. Here is who does it.",
		Hashtags: []string{"smallbusiness", "behindthescenes", "team"},
	}, g.usage(), nil
}

// GenerateImage returns a canned image brief
func (g *StubGenerator) GenerateImage(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.ImageOutput, generationapp.Usage, error) {
	if g.Err != nil {
		return nil, generationapp.Usage{}, g.Err
	}
	return &generationapp.ImageOutput{
		Prompt:  "Warm candid photo of a small team packing orders in a bright studio",
		AltText: "Three people packing boxes at a wooden table",
		Style:   "candid",
	}, g.usage(), nil
}

// GenerateDesign returns canned design suggestions
func (g *StubGenerator) GenerateDesign(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.DesignOutput, generationapp.Usage, error) {
	if g.Err != nil {
		return nil, generationapp.Usage{}, g.Err
	}
	return &generationapp.DesignOutput{
		Layout:      "single image with caption overlay bottom-left",
		Colors:      []string{"#1A1A2E", "#E94560"},
		FontPairing: "Inter / Lora",
	}, g.usage(), nil
}
