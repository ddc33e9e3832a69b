package extraction

import (
	"testing"

	"kaihelper/internal/testutil"
)

func TestParseReceipt(t *testing.T) {
	t.Run("complete_document", func(t *testing.T) {
		content := `{
			"store_name": "FreshMart",
			"store_address": "12 Jalan Pasar",
			"receipt_number": "R-1042",
			"receipt_date": "2025-10-17",
			"due_date": null,
			"payment_method": "Card",
			"category": "groceries",
			"currency": "USD",
			"items": [
				{"item_name": "milk", "quantity": 2, "unit_price": 3.5, "total_price": 7.0},
				{"item_name": "BREAD", "quantity": 1, "unit_price": 2.2, "total_price": null}
			],
			"subtotal_amount": 9.2,
			"tax_amount": 0.55,
			"discount_amount": null,
			"total_amount": 45.50,
			"suggestion": "Tag this under Groceries."
		}`

		receipt, err := ParseReceipt(content)
		testutil.AssertNoError(t, err)

		if receipt.StoreName != "FreshMart" {
			t.Errorf("expected store FreshMart, got %q", receipt.StoreName)
		}
		if receipt.Category != "Groceries" {
			t.Errorf("expected normalized category Groceries, got %q", receipt.Category)
		}
		if receipt.TotalAmount != 45.50 {
			t.Errorf("expected total 45.50, got %v", receipt.TotalAmount)
		}
		if receipt.SubtotalAmount == nil || *receipt.SubtotalAmount != 9.2 {
			t.Errorf("expected subtotal 9.2, got %v", receipt.SubtotalAmount)
		}
		if receipt.DiscountAmount != nil {
			t.Errorf("expected nil discount, got %v", *receipt.DiscountAmount)
		}
		if len(receipt.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(receipt.Items))
		}
		if receipt.Items[0].ItemName != "Milk" {
			t.Errorf("expected capitalized item Milk, got %q", receipt.Items[0].ItemName)
		}
		if receipt.Items[1].ItemName != "Bread" {
			t.Errorf("expected capitalized item Bread, got %q", receipt.Items[1].ItemName)
		}
		if receipt.Items[0].TotalPrice == nil || *receipt.Items[0].TotalPrice != 7.0 {
			t.Errorf("expected item total 7.0, got %v", receipt.Items[0].TotalPrice)
		}
		if receipt.Items[1].TotalPrice != nil {
			t.Errorf("expected nil item total, got %v", *receipt.Items[1].TotalPrice)
		}
	})

	t.Run("coerces_numeric_strings", func(t *testing.T) {
		content := `{
			"category": "Groceries",
			"items": [{"item_name": "Rice", "quantity": "2", "unit_price": "12.90"}],
			"total_amount": "25.80",
			"suggestion": ""
		}`

		receipt, err := ParseReceipt(content)
		testutil.AssertNoError(t, err)

		if receipt.TotalAmount != 25.80 {
			t.Errorf("expected coerced total 25.80, got %v", receipt.TotalAmount)
		}
		if receipt.Items[0].Quantity != 2 || receipt.Items[0].UnitPrice != 12.90 {
			t.Errorf("expected coerced quantity/price, got %v / %v",
				receipt.Items[0].Quantity, receipt.Items[0].UnitPrice)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		content := `{"category": null, "items": [{"item_name": ""}], "total_amount": 10}`

		receipt, err := ParseReceipt(content)
		testutil.AssertNoError(t, err)

		if receipt.Category != "Groceries" {
			t.Errorf("expected default category Groceries, got %q", receipt.Category)
		}
		if receipt.Suggestion != DefaultSuggestion {
			t.Errorf("expected default suggestion, got %q", receipt.Suggestion)
		}
		if receipt.Items[0].ItemName != "Unknown item" {
			t.Errorf("expected placeholder item name, got %q", receipt.Items[0].ItemName)
		}
	})

	t.Run("empty_items_allowed", func(t *testing.T) {
		receipt, err := ParseReceipt(`{"category": "Groceries", "items": [], "total_amount": 5}`)
		testutil.AssertNoError(t, err)
		if len(receipt.Items) != 0 {
			t.Errorf("expected no items, got %d", len(receipt.Items))
		}
	})

	t.Run("missing_total_amount", func(t *testing.T) {
		_, err := ParseReceipt(`{"category": "Groceries", "items": []}`)
		testutil.AssertAppError(t, err, "EXTRACTION_FAILED")
	})

	t.Run("null_total_amount", func(t *testing.T) {
		_, err := ParseReceipt(`{"category": "Groceries", "items": [], "total_amount": null}`)
		testutil.AssertAppError(t, err, "EXTRACTION_FAILED")
	})

	t.Run("missing_items_key", func(t *testing.T) {
		_, err := ParseReceipt(`{"category": "Groceries", "total_amount": 5}`)
		testutil.AssertAppError(t, err, "EXTRACTION_FAILED")
	})

	t.Run("unparseable_json", func(t *testing.T) {
		_, err := ParseReceipt(`Sure! Here is the JSON you asked for: {`)
		testutil.AssertAppError(t, err, "EXTRACTION_FAILED")
	})
}

func TestCapitalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"milk", "Milk"},
		{"MILK ", "Milk"},
		{"  fresh milk  ", "Fresh milk"},
		{"", ""},
		{"   ", ""},
		{"a", "A"},
	}
	for _, tc := range cases {
		if got := Capitalize(tc.in); got != tc.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
