package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lnikula/lifttrack/internal/errors"
)

// descriptionGenerator fills in the details of a user-submitted exercise
// using the OpenAI API. Only the name is required from the user.
type descriptionGenerator struct {
	client openai.Client
}

func newDescriptionGenerator(openaiAPIKey string) *descriptionGenerator {
	return &descriptionGenerator{
		client: openai.NewClient(option.WithAPIKey(openaiAPIKey)),
	}
}

// generatedDetails is the JSON shape the model is asked to produce.
type generatedDetails struct {
	MuscleGroup         string `json:"muscleGroup"`
	Category            string `json:"category"`
	Equipment           string `json:"equipment"`
	Timed               bool   `json:"timed"`
	HasWeight           bool   `json:"hasWeight"`
	DescriptionMarkdown string `json:"descriptionMarkdown"`
}

// Generate produces catalog details for the exercise called name.
func (g *descriptionGenerator) Generate(ctx context.Context, name string) (Exercise, error) {
	if name == "" {
		return Exercise{}, errors.New("exercise name cannot be empty")
	}

	prompt := fmt.Sprintf(`Describe the strength exercise "%s" as a single JSON object with these fields:

- "muscleGroup": the primary muscle group, one of: %s
- "category": the movement pattern, one of: %s
- "equipment": comma-separated equipment needed, or "None" for bodyweight
- "timed": true when the exercise is measured in seconds instead of reps
- "hasWeight": true when a weight is tracked for the exercise
- "descriptionMarkdown": a markdown description with an "## Instructions" section
  of 3-5 numbered steps and a "## Common Mistakes" section of 3-4 bullet points

Keep the description concise, around 100-150 words, focused on proper form.
Respond with the JSON object only, no surrounding text.`,
		name, strings.Join(MuscleGroups(), ", "), strings.Join(Categories(), ", "))

	chat, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return Exercise{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Exercise{}, errors.New("chat completion returned no choices")
	}

	var details generatedDetails
	content := strings.TrimPrefix(strings.TrimSpace(chat.Choices[0].Message.Content), "```json")
	content = strings.TrimSuffix(strings.TrimSuffix(content, "```"), "\n")
	if err = json.Unmarshal([]byte(content), &details); err != nil {
		return Exercise{}, fmt.Errorf("parse exercise details: %w", err)
	}

	if details.DescriptionMarkdown == "" {
		return Exercise{}, errors.New("generated exercise is missing description")
	}
	if !slices.Contains(MuscleGroups(), details.MuscleGroup) {
		return Exercise{}, fmt.Errorf("invalid muscle group %q", details.MuscleGroup)
	}
	if !slices.Contains(Categories(), details.Category) {
		return Exercise{}, fmt.Errorf("invalid category %q", details.Category)
	}

	return Exercise{
		Name:                name,
		MuscleGroup:         details.MuscleGroup,
		Category:            details.Category,
		Equipment:           details.Equipment,
		Timed:               details.Timed,
		HasWeight:           details.HasWeight,
		DescriptionMarkdown: details.DescriptionMarkdown,
	}, nil
}
