package generation

import (
	"context"
)

// StepContext carries the brief and brand profile into a generation step,
// plus the outputs of earlier steps in the same job.
type StepContext struct {
	Brief         string
	BrandVoice    string
	BrandKeywords []string
	Industry      string
	Idea          *IdeaOutput
	Copy          *CopyOutput
}

// IdeaOutput is the result of the idea step
type IdeaOutput struct {
	Concept  string   `json:"concept"`
	Angles   []string `json:"angles"`
	Audience string   `json:"audience"`
}

// CopyOutput is the result of the copy step
type CopyOutput struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Hashtags []string `json:"hashtags"`
}

// ImageOutput is the result of the image step
type ImageOutput struct {
	Prompt  string `json:"prompt"`
	AltText string `json:"alt_text"`
	Style   string `json:"style"`
}

// DesignOutput is the result of the design step
type DesignOutput struct {
	Layout      string   `json:"layout"`
	Colors      []string `json:"colors"`
	FontPairing string   `json:"font_pairing"`
}

// Usage reports the token consumption of one generator call
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the billable token count
func (u Usage) Total() int64 {
	return int64(u.PromptTokens + u.CompletionTokens)
}

// ContentGenerator produces structured content for each pipeline stage.
// Implemented by the infrastructure layer (OpenAI-compatible providers).
type ContentGenerator interface {
	GenerateIdea(ctx context.Context, stepCtx StepContext) (*IdeaOutput, Usage, error)
	GenerateCopy(ctx context.Context, stepCtx StepContext) (*CopyOutput, Usage, error)
	GenerateImage(ctx context.Context, stepCtx StepContext) (*ImageOutput, Usage, error)
	GenerateDesign(ctx context.Context, stepCtx StepContext) (*DesignOutput, Usage, error)
}
