package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeDocument writes doc as indented JSON. Amounts are written as bare
// JSON numbers.
func EncodeDocument(w io.Writer, doc *models.Document) error {
	if doc == nil {
		doc = NewDocument()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(doc)); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// MarshalDocument is EncodeDocument into a byte slice.
func MarshalDocument(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDocument reads a document written by EncodeDocument or by older
// versions of the application.
//
// Older documents list expense participants as bare user id strings; those
// become shares with no custom amount. Amounts may be JSON numbers or strings.
// An empty input yields an empty document.
func DecodeDocument(r io.Reader) (*models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return UnmarshalDocument(data)
}

// UnmarshalDocument is DecodeDocument over a byte slice.
func UnmarshalDocument(data []byte) (*models.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}

	var raw struct {
		Users    []models.User `json:"users"`
		Expenses []struct {
			ID           string          `json:"id"`
			Description  string          `json:"description"`
			Amount       decimal.Decimal `json:"amount"`
			Payer        string          `json:"payer"`
			Participants []legacyShare   `json:"participants"`
			Date         models.Date     `json:"date"`
		} `json:"expenses"`
		Settlements []models.Settlement `json:"settlements"`
		LastUpdated *time.Time          `json:"lastUpdated"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	doc := NewDocument()
	doc.Users = append(doc.Users, raw.Users...)
	doc.Settlements = append(doc.Settlements, raw.Settlements...)
	for _, e := range raw.Expenses {
		shares := make([]models.Share, len(e.Participants))
		for i, p := range e.Participants {
			shares[i] = models.Share(p)
		}
		doc.Expenses = append(doc.Expenses, models.Expense{
			ID:           e.ID,
			Description:  e.Description,
			Amount:       e.Amount,
			Payer:        e.Payer,
			Participants: shares,
			Date:         e.Date,
		})
	}
	if raw.LastUpdated != nil {
		doc.LastUpdated = *raw.LastUpdated
	}
	return doc, nil
}

// legacyShare accepts either a share object or a bare participant id.
type legacyShare models.Share

func (s *legacyShare) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*s = legacyShare(models.EqualShare(id))
		return nil
	}
	var share models.Share
	if err := json.Unmarshal(data, &share); err != nil {
		return fmt.Errorf("invalid participant %s: %w", data, err)
	}
	*s = legacyShare(share)
	return nil
}

// normalize replaces nil collections so they encode as [] rather than null.
func normalize(doc *models.Document) *models.Document {
	out := *doc
	if out.Users == nil {
		out.Users = []models.User{}
	}
	if out.Expenses == nil {
		out.Expenses = []models.Expense{}
	}
	if out.Settlements == nil {
		out.Settlements = []models.Settlement{}
	}
	out.Expenses = slices.Clone(out.Expenses)
	for i := range out.Expenses {
		if out.Expenses[i].Participants == nil {
			out.Expenses[i].Participants = []models.Share{}
		}
	}
	return &out
}
