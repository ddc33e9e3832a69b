package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/logger"
)

const systemPrompt = `You are an intelligent receipt analysis assistant.
Your goal is to extract clean, structured data from an image of a purchase receipt.

OUTPUT RULES
- Return ONLY valid JSON (no extra text, no Markdown).
- All date fields MUST be date-only strings in ISO format: "YYYY-MM-DD".
  - If the receipt shows a datetime, return only the date part.
  - Normalize day-first dates (e.g., "17/10/2025") to "2025-10-17".
  - Convert month names (e.g., "Oct 17, 2025") to "2025-10-17".
  - If a date is missing or ambiguous, use null.
- Every string must be trimmed and reasonably capitalized (title case for names).
- Numeric values (unit_price, quantity, subtotal_amount, tax_amount, discount_amount, total_amount) must be numbers (float).
- If a field is missing, include it with null (or an empty array for items).

RESPONSE SHAPE (exact keys):
{
  "store_name": string | null,
  "store_address": string | null,
  "receipt_number": string | null,
  "receipt_date": "YYYY-MM-DD" | null,
  "due_date": "YYYY-MM-DD" | null,
  "payment_method": string | null,
  "category": string,
  "currency": string | null,
  "items": [
    {
      "item_name": string,
      "quantity": float,
      "unit_price": float,
      "total_price": float | null
    }
  ],
  "subtotal_amount": float | null,
  "tax_amount": float | null,
  "discount_amount": float | null,
  "total_amount": float,
  "suggestion": string
}

Also include a short, helpful suggestion for how the user might tag or manage this receipt (e.g., "Consider categorizing this as Groceries for weekly expense tracking.").`

// Client calls an OpenAI-compatible chat-completions endpoint with a receipt
// image and parses the structured JSON the model returns.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
	model      string
}

// NewClient creates a vision extraction client. The supplied http.Client
// should carry the configured extraction timeout.
func NewClient(httpClient *http.Client, baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Extract sends the normalized JPEG to the vision model and returns the
// parsed receipt. The model's output is treated as untrusted input; any
// parse failure or missing required field fails the whole call.
func (c *Client) Extract(ctx context.Context, jpegBytes []byte) (*Receipt, error) {
	b64 := base64.StdEncoding.EncodeToString(jpegBytes)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []map[string]any{
				{"type": "text", "text": "Extract and format this receipt as JSON only."},
				{"type": "image_url", "image_url": map[string]string{
					"url": "data:image/jpeg;base64," + b64,
				}},
			}},
		},
		Temperature: 0,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, apperrors.Wrap(apperrors.ErrExtractionTimeout, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatResponse
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrExtractionFailed,
				fmt.Errorf("vision API status %d: %s", resp.StatusCode, apiErr.Error.Message))
		}
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed,
			fmt.Errorf("vision API returned status %d", resp.StatusCode))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed,
			fmt.Errorf("vision API returned no choices"))
	}

	receipt, err := ParseReceipt(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("receipt extracted",
		"category", receipt.Category,
		"items", len(receipt.Items),
		"total", receipt.TotalAmount,
	)
	return receipt, nil
}

// isTimeout reports whether err is a client-side timeout (http.Client.Timeout
// surfaces as a net.Error with Timeout() true rather than context.DeadlineExceeded).
func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	var t timeout
	return errors.As(err, &t) && t.Timeout()
}
