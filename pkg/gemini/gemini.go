package gemini

import (
	"context"
	"errors"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type IGemini interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	DescribeFrames(ctx context.Context, prompt string, frames [][]byte) (string, error)
	Close()
}

type geminiClient struct {
	apiKey    string
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", errors.New("prompt is required")
	}

	model := g.client.GenerativeModel(g.modelName)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	return firstText(res)
}

// DescribeFrames sends the prompt followed by one or more JPEG frames to the
// multimodal model.
func (g *geminiClient) DescribeFrames(ctx context.Context, prompt string, frames [][]byte) (string, error) {
	if len(frames) == 0 {
		return "", errors.New("at least one frame is required")
	}

	model := g.client.GenerativeModel(g.modelName)

	parts := make([]genai.Part, 0, len(frames)+1)
	parts = append(parts, genai.Text(prompt))
	for _, frame := range frames {
		parts = append(parts, genai.ImageData("image/jpeg", frame))
	}

	res, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}

	return firstText(res)
}

func firstText(res *genai.GenerateContentResponse) (string, error) {
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
