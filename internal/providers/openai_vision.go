package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

const (
	OpenAIVisionName            = "openai"
	openAIVisionDefaultModel    = openai.ChatModelGPT4o
	openAIVisionDefaultCropSide = 2048
)

const visionSystemPrompt = `You read architectural and engineering drawing sheets.
Report only text that is printed on the sheet. Never invent or correct text.`

// OpenAIVisionConfig holds configuration for the OpenAI vision client.
type OpenAIVisionConfig struct {
	APIKey      string
	Model       string        // "gpt-4o" (default)
	RateLimit   float64       // Requests per second
	MaxRetries  int           // Retry attempts for SDK transport
	RetryDelay  time.Duration // Base delay for caller-side backoff
	Timeout     time.Duration // HTTP timeout
	CropMaxSide int           // Longest side of region crops sent upstream
	BaseURL     string        // Optional (tests)
	HTTPClient  *http.Client  // Optional (tests)
}

// OpenAIVisionClient implements LabelDetector and RegionReader with chat
// completions over page images and a strict JSON response schema.
type OpenAIVisionClient struct {
	apiKey      string
	model       string
	rateLimit   float64
	maxRetries  int
	retryDelay  time.Duration
	cropMaxSide int
	limiter     *RateLimiter
	client      openai.Client
}

// NewOpenAIVisionClient creates a new OpenAI vision client.
func NewOpenAIVisionClient(cfg OpenAIVisionConfig) *OpenAIVisionClient {
	if cfg.Model == "" {
		cfg.Model = openAIVisionDefaultModel
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRequestsPerSecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.CropMaxSide <= 0 {
		cfg.CropMaxSide = openAIVisionDefaultCropSide
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIVisionClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		rateLimit:   cfg.RateLimit,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		cropMaxSide: cfg.CropMaxSide,
		limiter:     NewRateLimiter(cfg.RateLimit),
		client:      openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIVisionClient) Name() string {
	return OpenAIVisionName
}

// RequestsPerSecond returns the configured rate limit.
func (c *OpenAIVisionClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *OpenAIVisionClient) MaxRetries() int {
	return c.maxRetries
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *OpenAIVisionClient) RetryDelayBase() time.Duration {
	return c.retryDelay
}

// Model returns the configured model.
func (c *OpenAIVisionClient) Model() string {
	return c.model
}

type labelHitsPayload struct {
	Hits []struct {
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
		W         float64 `json:"w"`
		H         float64 `json:"h"`
		LabelType string  `json:"label_type"`
		Weight    float64 `json:"weight"`
		Text      string  `json:"text"`
	} `json:"hits"`
}

// DetectLabels asks the model for title-block label fragments on a page.
// Boxes are in the pixel space of the supplied image.
func (c *OpenAIVisionClient) DetectLabels(ctx context.Context, img []byte, pageNum int) (*DetectResult, error) {
	start := time.Now()
	if len(img) == 0 {
		return nil, ErrEmptyImage
	}
	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read page image size: %w", ErrInvalidImage, err)
	}

	prompt := fmt.Sprintf(`Page %d is %dx%d pixels.
List every text fragment that belongs to a drawing title block: sheet number labels and values, sheet title labels and values, and other title-block fields.
For each fragment give its pixel box (x, y, w, h), label_type "number" for sheet-number text, "title" for sheet-title text, otherwise "other",
a weight from 0 to 5 for how prominent the text is, and the text exactly as printed.`, pageNum, imgCfg.Width, imgCfg.Height)

	parsed, err := c.structured(ctx, "label_hits", labelHitsValidator, prompt, img)
	if err != nil {
		return nil, err
	}

	var payload labelHitsPayload
	if err := json.Unmarshal(parsed, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode label hits: %w", err)
	}

	hits := make([]titleblock.LabelHit, 0, len(payload.Hits))
	for _, h := range payload.Hits {
		hits = append(hits, titleblock.LabelHit{
			BBox:   geometry.PixelBox{X: h.X, Y: h.Y, W: h.W, H: h.H},
			Type:   titleblock.ParseLabelType(h.LabelType),
			Weight: h.Weight,
			Text:   h.Text,
		})
	}

	return &DetectResult{
		Hits:          hits,
		RenderWidth:   float64(imgCfg.Width),
		RenderHeight:  float64(imgCfg.Height),
		ExecutionTime: time.Since(start),
		Provider:      OpenAIVisionName,
	}, nil
}

// ReadRegion crops the title block out of the page and asks the model for
// sheet number and title candidates.
func (c *OpenAIVisionClient) ReadRegion(ctx context.Context, img []byte, region geometry.PixelBox, pageNum int) (*RegionText, error) {
	start := time.Now()
	crop, err := CropRegion(img, region, c.cropMaxSide)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`This is the title block of drawing page %d.
Return the sheet number and the sheet title exactly as printed.
List the most likely reading first; include alternates only if the text is ambiguous.`, pageNum)

	parsed, err := c.structured(ctx, "region_text", regionTextValidator, prompt, crop)
	if err != nil {
		return nil, err
	}

	var out RegionText
	if err := json.Unmarshal(parsed, &out); err != nil {
		return nil, fmt.Errorf("failed to decode region text: %w", err)
	}
	out.ExecutionTime = time.Since(start)
	out.Provider = OpenAIVisionName
	return &out, nil
}

// structured runs one chat completion with an image and a strict schema,
// re-asking when the reply fails local validation.
func (c *OpenAIVisionClient) structured(ctx context.Context, name string, v *schemaValidator, prompt string, img []byte) (json.RawMessage, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(visionSystemPrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    imageDataURL(img),
				Detail: "high",
			}),
		}),
	}

	var lastErr error
	for attempt := 0; attempt <= maxStructuredRepairAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       c.model,
			Messages:    messages,
			Temperature: openai.Float(0),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
					JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   name,
						Schema: v.schemaObject(),
						Strict: openai.Bool(true),
					},
				},
			},
		})
		if err != nil {
			err = mapOpenAIError(err)
			if rle, ok := IsRateLimitError(err); ok {
				c.limiter.Record429(rle.RetryAfter)
			}
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("openai %s: response has no choices", name)
		}

		content := resp.Choices[0].Message.Content
		parsed, perr := parseStructuredJSON(content)
		if perr == nil {
			if perr = v.validate(parsed); perr == nil {
				return parsed, nil
			}
		}
		lastErr = perr
		messages = append(messages,
			openai.AssistantMessage(content),
			openai.UserMessage(structuredRepairPrompt(v.raw, content, perr)),
		)
	}
	return nil, fmt.Errorf("openai %s: %w: %w", name, ErrInvalidResponse, lastErr)
}

func imageDataURL(img []byte) string {
	mime := http.DetectContentType(img)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Duration(0)
			if apiErr.Response != nil {
				retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return &RateLimitError{
				Message:    fmt.Sprintf("OpenAI rate limited: %s", apiErr.Message),
				RetryAfter: retryAfter,
				StatusCode: apiErr.StatusCode,
			}
		}
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI vision error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI vision error (status %d)", apiErr.StatusCode)
	}
	return err
}

var (
	_ LabelDetector = (*OpenAIVisionClient)(nil)
	_ RegionReader  = (*OpenAIVisionClient)(nil)
)
