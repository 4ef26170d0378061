package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const defaultOpenAIModel = "gpt-4o-mini"

// classifyPrompt instructs the model to label exactly one dominant emotion.
const classifyPrompt = `You classify the dominant emotion of a short journal entry.
Pick a single lowercase emotion label such as "joy", "sadness", "anger", "calm",
"anxiety", or "neutral", and a confidence from 0 to 100 for how strongly the text
expresses it. Judge the writer's feeling, not the events described.`

// classifyResponse is the structured output the model must produce.
type classifyResponse struct {
	Emotion    string  `json:"emotion" jsonschema_description:"Single lowercase emotion label"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence 0-100"`
}

var classifySchema = generateSchema[classifyResponse]()

// OpenAI classifies entries with an OpenAI model constrained to a strict
// JSON schema. It satisfies Classifier and is selected by configuration when
// no local gateway is available.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI returns an OpenAI classifier. An empty model falls back to the
// package default.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Classify asks the model for a single emotion label and confidence.
func (o *OpenAI) Classify(ctx context.Context, text string) (Result, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionClassification",
			Schema:      classifySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Emotion classification JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(200),
		Instructions:    openai.String(classifyPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("calling openai: %w", err)
	}

	var out classifyResponse
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return Result{}, fmt.Errorf("unmarshaling classification: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(out.Emotion))
	if label == "" {
		return Result{}, ErrEmptyResult
	}

	return Result{EmotionType: label, Confidence: clampConfidence(out.Confidence)}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// generateSchema reflects a strict JSON schema for structured model output.
func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}

	// Strict mode requires every property to be listed as required.
	if props, ok := m["properties"].(map[string]any); ok {
		required := make([]any, 0, len(props))
		for name := range props {
			required = append(required, name)
		}
		m["required"] = required
		m["additionalProperties"] = false
	}
	return m
}
