package ai

import (
	"context"
	"fmt"
	"strings"

	generationapp "github.com/agencyhub/backend/internal/application/generation"
)

// Ensure OpenAIGenerator implements ContentGenerator
var _ generationapp.ContentGenerator = (*OpenAIGenerator)(nil)

// OpenAIGenerator implements the generation pipeline stages with
// structured-output chat completions.
type OpenAIGenerator struct {
	client *Client
}

// NewOpenAIGenerator creates a new OpenAIGenerator
func NewOpenAIGenerator(client *Client) *OpenAIGenerator {
	return &OpenAIGenerator{client: client}
}

const systemPrompt = "You are a senior social media strategist at a marketing agency. " +
	"You produce concise, on-brand content and always answer in the requested JSON shape."

// GenerateIdea produces the campaign concept for a brief
func (g *OpenAIGenerator) GenerateIdea(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.IdeaOutput, generationapp.Usage, error) {
	prompt := fmt.Sprintf(
		"Develop a campaign concept for the following brief.\n\nBrief: %s\n%s\nReturn a concept, 3-5 content angles, and the target audience.",
		stepCtx.Brief, brandBlock(stepCtx),
	)

	var out generationapp.IdeaOutput
	u, err := g.client.chat(ctx, chatRequest{
		systemPrompt: systemPrompt,
		userPrompt:   prompt,
		schemaName:   "campaign_idea",
		schema:       generateSchema[generationapp.IdeaOutput](),
	}, &out)
	if err != nil {
		return nil, generationapp.Usage{}, err
	}
	return &out, toUsage(u), nil
}

// GenerateCopy produces post copy and hashtags
func (g *OpenAIGenerator) GenerateCopy(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.CopyOutput, generationapp.Usage, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write social media post copy for the following brief.\n\nBrief: %s\n%s", stepCtx.Brief, brandBlock(stepCtx))
	if stepCtx.Idea != nil {
		fmt.Fprintf(&sb, "\nCampaign concept: %s\nAudience: %s", stepCtx.Idea.Concept, stepCtx.Idea.Audience)
	}
	sb.WriteString("\nReturn a short title, the post body, and 3-8 relevant hashtags without the # prefix.")

	var out generationapp.CopyOutput
	u, err := g.client.chat(ctx, chatRequest{
		systemPrompt: systemPrompt,
		userPrompt:   sb.String(),
		schemaName:   "post_copy",
		schema:       generateSchema[generationapp.CopyOutput](),
	}, &out)
	if err != nil {
		return nil, generationapp.Usage{}, err
	}
	return &out, toUsage(u), nil
}

// GenerateImage produces an image prompt and alt text for the post
func (g *OpenAIGenerator) GenerateImage(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.ImageOutput, generationapp.Usage, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Describe the hero image for this social media post.\n\nBrief: %s\n%s", stepCtx.Brief, brandBlock(stepCtx))
	if stepCtx.Copy != nil {
		fmt.Fprintf(&sb, "\nPost title: %s\nPost body: %s", stepCtx.Copy.Title, stepCtx.Copy.Body)
	}
	sb.WriteString("\nReturn a detailed image generation prompt, accessible alt text, and a one-word style.")

	var out generationapp.ImageOutput
	u, err := g.client.chat(ctx, chatRequest{
		systemPrompt: systemPrompt,
		userPrompt:   sb.String(),
		schemaName:   "post_image",
		schema:       generateSchema[generationapp.ImageOutput](),
	}, &out)
	if err != nil {
		return nil, generationapp.Usage{}, err
	}
	return &out, toUsage(u), nil
}

// GenerateDesign produces layout and color suggestions
func (g *OpenAIGenerator) GenerateDesign(ctx context.Context, stepCtx generationapp.StepContext) (*generationapp.DesignOutput, generationapp.Usage, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Suggest the visual design for this social media post.\n\nBrief: %s\n%s", stepCtx.Brief, brandBlock(stepCtx))
	if stepCtx.Copy != nil {
		fmt.Fprintf(&sb, "\nPost title: %s", stepCtx.Copy.Title)
	}
	sb.WriteString("\nReturn a layout description, 2-4 hex colors, and a font pairing.")

	var out generationapp.DesignOutput
	u, err := g.client.chat(ctx, chatRequest{
		systemPrompt: systemPrompt,
		userPrompt:   sb.String(),
		schemaName:   "post_design",
		schema:       generateSchema[generationapp.DesignOutput](),
	}, &out)
	if err != nil {
		return nil, generationapp.Usage{}, err
	}
	return &out, toUsage(u), nil
}

// brandBlock renders the brand profile portion of a prompt
func brandBlock(stepCtx generationapp.StepContext) string {
	var sb strings.Builder
	if stepCtx.BrandVoice != "" {
		fmt.Fprintf(&sb, "Brand voice: %s\n", stepCtx.BrandVoice)
	}
	if stepCtx.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", stepCtx.Industry)
	}
	if len(stepCtx.BrandKeywords) > 0 {
		fmt.Fprintf(&sb, "Brand keywords: %s\n", strings.Join(stepCtx.BrandKeywords, ", "))
	}
	return sb.String()
}

func toUsage(u usage) generationapp.Usage {
	return generationapp.Usage{
		PromptTokens:     u.promptTokens,
		CompletionTokens: u.completionTokens,
	}
}
