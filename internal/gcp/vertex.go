package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/ujiie/millsheetflow/internal/models"
)

// --- Field Extractor Model Prompts ---
const ExtractorSystemPrompt = "You are a document analysis tool specialized in Japanese steel-industry paperwork such as mill sheets, inspection certificates, and invoices. Your task is to extract structured fields from raw OCR text. You must output your response as a single valid JSON object."

const ExtractorUserPrompt = `Analyze the OCR text of a scanned business document and extract its key fields.

Follow these rules precisely:
1.  The output MUST be a single, valid JSON object with exactly these keys: "date", "companyName", "documentType", "materialGrade", "dimensions", "chargeNumber".
2.  "date" is the document's issue date formatted as YYYY-MM-DD. Convert Japanese era dates (令和, 平成) to the Gregorian calendar.
3.  "companyName" is the issuing company. Prefer the manufacturer over distributors or recipients.
4.  "documentType" is the Japanese document kind, e.g. ミルシート, 検査証明書, 試験成績書, 納品書, 請求書.
5.  "materialGrade" is the JIS steel grade, e.g. SPHC, SS400, SUS304.
6.  "dimensions" is thickness x width x length in millimeters, e.g. "1.6x1219xC" where C stands for coil.
7.  "chargeNumber" is the heat or charge number, uppercase letters and digits only.
8.  Use an empty string for any field that is not present in the text. Never invent values.

Example output format:
{
  "date": "2024-01-15",
  "companyName": "東京製鉄",
  "documentType": "ミルシート",
  "materialGrade": "SPHC",
  "dimensions": "1.6x1219xC",
  "chargeNumber": "AB1234"
}

The OCR text follows:`

// isoDateRegexp guards against the model returning a malformed date.
var isoDateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// VertexClient holds the pre-configured generative model used as a fallback
// extractor when the regex parser comes up empty.
type VertexClient struct {
	ExtractorModel *genai.GenerativeModel
	baseClient     *genai.Client
}

// NewVertexClient creates a client with the field extractor model configured
// for deterministic JSON output.
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and location cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	extractorModel := baseClient.GenerativeModel(modelName)
	extractorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ExtractorSystemPrompt)},
	}
	extractorModel.GenerationConfig = genai.GenerationConfig{
		// Force JSON output. This is a critical setting for this model.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	extractorModel.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		ExtractorModel: extractorModel,
		baseClient:     baseClient,
	}, nil
}

// ExtractFields asks the model to pull structured fields out of OCR text.
func (c *VertexClient) ExtractFields(ctx context.Context, text string) (models.DocumentInfo, error) {
	resp, err := c.ExtractorModel.GenerateContent(ctx, genai.Text(ExtractorUserPrompt), genai.Text(text))
	if err != nil {
		return models.DocumentInfo{}, fmt.Errorf("failed to generate fields from gemini: %w", err)
	}

	jsonString := extractJSONContent(resp)
	if jsonString == "" {
		return models.DocumentInfo{}, fmt.Errorf("gemini returned an empty response instead of JSON")
	}

	var info models.DocumentInfo
	if err := json.Unmarshal([]byte(jsonString), &info); err != nil {
		return models.DocumentInfo{}, fmt.Errorf("failed to parse gemini JSON response: %w", err)
	}
	if info.Date != "" && !isoDateRegexp.MatchString(info.Date) {
		info.Date = ""
	}
	return info, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// extractJSONContent robustly gets the raw text content from the model response.
func extractJSONContent(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	// The model is configured to return JSON, so we expect a single text part.
	if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
		// Clean potential markdown fences just in case
		cleanJSON := strings.TrimSpace(string(txt))
		cleanJSON = strings.TrimPrefix(cleanJSON, "```json")
		cleanJSON = strings.TrimSuffix(cleanJSON, "```")
		return strings.TrimSpace(cleanJSON)
	}
	return ""
}
