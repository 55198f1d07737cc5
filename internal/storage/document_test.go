package storage

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantErr      bool
		validateFunc func(t *testing.T, doc *models.Document)
	}{
		{
			name:  "empty input",
			input: "",
			validateFunc: func(t *testing.T, doc *models.Document) {
				if len(doc.Users) != 0 || len(doc.Expenses) != 0 || len(doc.Settlements) != 0 {
					t.Errorf("expected empty document, got %+v", doc)
				}
				if doc.Users == nil || doc.Expenses == nil || doc.Settlements == nil {
					t.Error("expected non-nil collections")
				}
			},
		},
		{
			name: "current format",
			input: `{
				"users": [{"id": "u1", "name": "Asha", "color": "#FF6B6B"}],
				"expenses": [{
					"id": "e1", "description": "Dinner", "amount": 120.5, "payer": "u1",
					"participants": [{"id": "u1", "amount": null}, {"id": "u2", "amount": 20}],
					"date": "2024-03-01"
				}],
				"settlements": [{"id": "s1", "from": "u2", "to": "u1", "amount": "20", "completed": true, "date": "2024-03-02"}],
				"lastUpdated": "2024-03-02T10:00:00Z"
			}`,
			validateFunc: func(t *testing.T, doc *models.Document) {
				if len(doc.Expenses) != 1 {
					t.Fatalf("expected 1 expense, got %d", len(doc.Expenses))
				}
				e := doc.Expenses[0]
				if !e.Amount.Equal(decimal.RequireFromString("120.5")) {
					t.Errorf("amount = %s, want 120.5", e.Amount)
				}
				if e.Participants[0].IsCustom() {
					t.Error("expected first participant to have no custom amount")
				}
				if !e.Participants[1].IsCustom() || !e.Participants[1].Amount.Decimal.Equal(decimal.NewFromInt(20)) {
					t.Errorf("second participant = %+v, want custom 20", e.Participants[1])
				}
				if e.Date.String() != "2024-03-01" {
					t.Errorf("date = %s, want 2024-03-01", e.Date)
				}
				if !doc.Settlements[0].Completed {
					t.Error("expected settlement to be completed")
				}
				if !doc.LastUpdated.Equal(time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)) {
					t.Errorf("lastUpdated = %v", doc.LastUpdated)
				}
			},
		},
		{
			name: "legacy participant ids",
			input: `{
				"users": [],
				"expenses": [{"id": "1700000000000", "description": "Taxi", "amount": 30, "payer": "a", "participants": ["a", "b"], "date": "2023-11-14"}]
			}`,
			validateFunc: func(t *testing.T, doc *models.Document) {
				got := doc.Expenses[0].Participants
				if len(got) != 2 || got[0].UserID != "a" || got[1].UserID != "b" {
					t.Fatalf("participants = %+v", got)
				}
				if got[0].IsCustom() || got[1].IsCustom() {
					t.Error("legacy participants must not carry custom amounts")
				}
				if doc.Settlements == nil {
					t.Error("expected non-nil settlements")
				}
			},
		},
		{
			name:    "malformed json",
			input:   `{"users": [`,
			wantErr: true,
		},
		{
			name:    "invalid participant",
			input:   `{"expenses": [{"id": "e", "amount": 1, "participants": [42]}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, doc)
			}
		})
	}
}

func TestEncodeDocument(t *testing.T) {
	doc := &models.Document{
		Users: []models.User{{ID: "u1", Name: "Asha", Color: "#FF6B6B"}},
		Expenses: []models.Expense{{
			ID:           "e1",
			Description:  "Dinner",
			Amount:       decimal.RequireFromString("99.90"),
			Payer:        "u1",
			Participants: []models.Share{models.EqualShare("u1"), models.CustomShare("u2", decimal.NewFromInt(10))},
			Date:         models.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		}},
	}

	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc); err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{`"amount": 99.9`, `"amount": null`, `"amount": 10`, `"settlements": []`, `"date": "2024-03-01"`} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded document missing %s:\n%s", want, out)
		}
	}

	back, err := DecodeDocument(&buf)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if !back.Expenses[0].Amount.Equal(doc.Expenses[0].Amount) {
		t.Errorf("amount = %s, want %s", back.Expenses[0].Amount, doc.Expenses[0].Amount)
	}
	if doc.Settlements != nil {
		t.Error("EncodeDocument must not modify its input")
	}
}
