// Package extraction turns uploaded receipt images into structured purchase
// data using an external vision model. It never touches the database; callers
// are responsible for converting its errors into API responses.
package extraction

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	apperrors "kaihelper/internal/errors"
)

// DefaultSuggestion is substituted when the model omits the suggestion field.
const DefaultSuggestion = "You can save this receipt under 'Groceries' or tag it by store name for tracking."

// Item is one extracted receipt line item.
type Item struct {
	ItemName   string   `json:"item_name"`
	Quantity   float64  `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	TotalPrice *float64 `json:"total_price,omitempty"`
}

// Receipt is the structured result of a successful extraction. Date fields
// are ISO date strings ("YYYY-MM-DD") or empty; normalization of ambiguous
// dates happens in the model per the prompt, not here.
type Receipt struct {
	StoreName      string   `json:"store_name,omitempty"`
	StoreAddress   string   `json:"store_address,omitempty"`
	ReceiptNumber  string   `json:"receipt_number,omitempty"`
	ReceiptDate    string   `json:"receipt_date,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	PaymentMethod  string   `json:"payment_method,omitempty"`
	Category       string   `json:"category"`
	Currency       string   `json:"currency,omitempty"`
	Items          []Item   `json:"items"`
	SubtotalAmount *float64 `json:"subtotal_amount,omitempty"`
	TaxAmount      *float64 `json:"tax_amount,omitempty"`
	DiscountAmount *float64 `json:"discount_amount,omitempty"`
	TotalAmount    float64  `json:"total_amount"`
	Suggestion     string   `json:"suggestion"`
}

// flexFloat decodes a JSON number, numeric string, or null without failing
// the whole document. Set reports whether a usable value was present.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Untrusted model output: an unparseable number is treated as absent.
		return nil
	}
	f.Value = v
	f.Set = true
	return nil
}

// flexString decodes a JSON string, number, or null into a trimmed string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return nil
		}
		*f = flexString(strings.TrimSpace(v))
		return nil
	}
	*f = flexString(s)
	return nil
}

type rawItem struct {
	ItemName   flexString `json:"item_name"`
	Quantity   flexFloat  `json:"quantity"`
	UnitPrice  flexFloat  `json:"unit_price"`
	TotalPrice flexFloat  `json:"total_price"`
}

type rawReceipt struct {
	StoreName      flexString `json:"store_name"`
	StoreAddress   flexString `json:"store_address"`
	ReceiptNumber  flexString `json:"receipt_number"`
	ReceiptDate    flexString `json:"receipt_date"`
	DueDate        flexString `json:"due_date"`
	PaymentMethod  flexString `json:"payment_method"`
	Category       flexString `json:"category"`
	Currency       flexString `json:"currency"`
	Items          *[]rawItem `json:"items"`
	SubtotalAmount flexFloat  `json:"subtotal_amount"`
	TaxAmount      flexFloat  `json:"tax_amount"`
	DiscountAmount flexFloat  `json:"discount_amount"`
	TotalAmount    flexFloat  `json:"total_amount"`
	Suggestion     flexString `json:"suggestion"`
}

// ParseReceipt parses raw model output into a Receipt. The content is
// untrusted: numbers are coerced, strings trimmed, and every field is
// optional except total_amount and the items key, whose absence fails the
// whole extraction.
func ParseReceipt(content string) (*Receipt, error) {
	var raw rawReceipt
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrExtractionFailed,
			"Model returned unparseable output: "+err.Error())
	}

	if !raw.TotalAmount.Set {
		return nil, apperrors.WithMessage(apperrors.ErrExtractionFailed,
			"Model output is missing required field: total_amount")
	}
	if raw.Items == nil {
		return nil, apperrors.WithMessage(apperrors.ErrExtractionFailed,
			"Model output is missing required field: items")
	}

	receipt := &Receipt{
		StoreName:     string(raw.StoreName),
		StoreAddress:  string(raw.StoreAddress),
		ReceiptNumber: string(raw.ReceiptNumber),
		ReceiptDate:   string(raw.ReceiptDate),
		DueDate:       string(raw.DueDate),
		PaymentMethod: string(raw.PaymentMethod),
		Category:      Capitalize(string(raw.Category)),
		Currency:      string(raw.Currency),
		TotalAmount:   raw.TotalAmount.Value,
		Suggestion:    string(raw.Suggestion),
	}
	if receipt.Category == "" {
		receipt.Category = "Groceries"
	}
	if receipt.Suggestion == "" {
		receipt.Suggestion = DefaultSuggestion
	}
	if raw.SubtotalAmount.Set {
		receipt.SubtotalAmount = &raw.SubtotalAmount.Value
	}
	if raw.TaxAmount.Set {
		receipt.TaxAmount = &raw.TaxAmount.Value
	}
	if raw.DiscountAmount.Set {
		receipt.DiscountAmount = &raw.DiscountAmount.Value
	}

	receipt.Items = make([]Item, 0, len(*raw.Items))
	for _, ri := range *raw.Items {
		item := Item{
			ItemName:  Capitalize(string(ri.ItemName)),
			Quantity:  ri.Quantity.Value,
			UnitPrice: ri.UnitPrice.Value,
		}
		if item.ItemName == "" {
			item.ItemName = "Unknown item"
		}
		if ri.TotalPrice.Set {
			// Copy before taking the address: under the go 1.21 directive the
			// range variable is shared across iterations.
			totalPrice := ri.TotalPrice.Value
			item.TotalPrice = &totalPrice
		}
		receipt.Items = append(receipt.Items, item)
	}

	return receipt, nil
}

// Capitalize trims the string, uppercases the first rune, and lowercases the
// rest. It is the normalization applied to categories and item names so that
// "milk" and "MILK " reconcile to the same record.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
