// Package oracle calls the OCR/tampering model. It is an external
// collaborator: the fields it returns are best-effort and possibly
// inaccurate, and the pipeline must not assume anything beyond name.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"certitrust/internal/models"
)

var (
	// ErrQuotaExceeded signals an upstream rate limit. The core never
	// retries; retry policy belongs to the caller.
	ErrQuotaExceeded = errors.New("api quota exceeded, wait a minute and try again")
	// ErrOverloaded signals transient upstream overload.
	ErrOverloaded = errors.New("verification service temporarily overloaded, try again shortly")
	// ErrExtractionIncomplete means the model could not read the
	// required fields, usually a poor quality image.
	ErrExtractionIncomplete = errors.New("could not extract the required fields from the document; upload a clear, high-resolution image")
)

const geminiModel = "gemini-2.0-flash"

// Client extracts structured certificate fields and a tampering
// assessment from an uploaded document image.
type Client struct {
	apiKey      string
	visionCreds string
}

// New builds a client. visionCredsFile may be empty, in which case the
// Vision stage falls back to ambient application credentials.
func New(apiKey, visionCredsFile string) *Client {
	return &Client{apiKey: apiKey, visionCreds: visionCredsFile}
}

const extractionPrompt = `You are an expert OCR engine and a forensic document analyst. Perform two actions on the provided certificate image:

1. Extract these fields: "name", "rollNumber", "certificateId", and if present "dateOfBirth", "fathersName", "mothersName".
   - Pay close attention to labels. "rollNumber" can be "Roll No." or "Admit Card ID". "certificateId" can be "Certificate No." or "Serial No.". Do not confuse the two.
   - If a field cannot be found its value must be null. Clean extracted values of stray newlines and extra whitespace.

2. Analyze the image for signs of tampering: missing seals, unnatural blurs, inconsistent fonts, or other anomalies.
   - DigiLocker documents may carry a digital signature date much later than the issue date; that is normal and NOT tampering.
   - Return "tamperingScore" (0-1, 1 = high likelihood) and "tamperingExplanation".

Your entire response must be ONLY a JSON object with the keys above. No explanations before or after.`

// Extract runs the Vision OCR pass and the Gemini extraction/tampering
// pass and returns the parsed result.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) (models.Extraction, error) {
	var out models.Extraction

	if strings.TrimSpace(c.apiKey) == "" {
		return out, errors.New("missing GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return out, fmt.Errorf("failed to init Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModel)
	model.GenerationConfig = genai.GenerationConfig{ResponseMIMEType: "application/json"}

	prompt := extractionPrompt
	// Raw OCR text is supplementary context only; the model sees the
	// image either way, so a Vision failure is not fatal.
	if raw := c.rawText(ctx, image); raw != "" {
		prompt += "\n\nRaw OCR text from the document for reference:\n\"\"\"\n" + raw + "\n\"\"\""
	}

	parts := []genai.Part{documentPart(image, mimeType), genai.Text(prompt)}
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return out, classify(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return out, errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		} else {
			sb.WriteString(fmt.Sprint(part))
		}
	}
	jsonStr := strings.TrimSpace(sb.String())
	if jsonStr == "" {
		return out, errors.New("no text in Gemini response")
	}

	jsonStr = stripCodeFences(jsonStr)
	if candidate, ok := extractFirstJSON(jsonStr); ok {
		jsonStr = candidate
	}

	// Tolerate nulls by unmarshaling into a map[string]any first.
	var tmp map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &tmp); err != nil {
		return out, fmt.Errorf("failed to parse Gemini JSON: %w", err)
	}

	out.Name = getString(tmp, "name")
	out.RollNumber = getString(tmp, "rollNumber")
	out.CertificateID = getString(tmp, "certificateId")
	out.DateOfBirth = getString(tmp, "dateOfBirth")
	out.FathersName = getString(tmp, "fathersName")
	out.MothersName = getString(tmp, "mothersName")
	out.TamperingScore = getFloat(tmp, "tamperingScore")
	out.TamperingExplanation = getString(tmp, "tamperingExplanation")

	if strings.TrimSpace(out.Name) == "" {
		return out, ErrExtractionIncomplete
	}
	return out, nil
}

// rawText runs Google Vision text detection over the image, best-effort.
func (c *Client) rawText(ctx context.Context, image []byte) string {
	var client *vision.ImageAnnotatorClient
	var err error
	if c.visionCreds != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(c.visionCreds))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		log.Println("oracle: vision client unavailable:", err)
		return ""
	}
	defer client.Close()

	anns, err := client.DetectTexts(ctx, &visionpb.Image{Content: image}, nil, 1)
	if err != nil || len(anns) == 0 {
		return ""
	}
	return anns[0].Description
}

func documentPart(data []byte, mimeType string) genai.Part {
	if sub, ok := strings.CutPrefix(mimeType, "image/"); ok {
		return genai.ImageData(sub, data)
	}
	return genai.Blob{MIMEType: mimeType, Data: data}
}

// classify maps upstream rate-limit and overload signals onto the
// user-facing error taxonomy.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 429:
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		case 503:
			return fmt.Errorf("%w: %v", ErrOverloaded, err)
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(msg, "503") || strings.Contains(msg, "overloaded") || strings.Contains(msg, "unavailable"):
		return fmt.Errorf("%w: %v", ErrOverloaded, err)
	}
	return fmt.Errorf("gemini generation failed: %w", err)
}

func getString(m map[string]any, k string) string {
	v, ok := m[k]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		b, _ := json.Marshal(t)
		return strings.TrimSpace(string(b))
	}
}

func getFloat(m map[string]any, k string) float64 {
	switch t := m[k].(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}
