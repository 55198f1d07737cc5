package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

// shareSpec is one entry of a -with list before user references are resolved.
type shareSpec struct {
	user   string
	amount decimal.NullDecimal
}

// parseShareSpecs parses "alice,bob:30,carol": participants separated by
// commas, each optionally followed by ":amount" for a custom split.
func parseShareSpecs(s string) ([]shareSpec, error) {
	var specs []shareSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		user, amt, custom := strings.Cut(part, ":")
		user = strings.TrimSpace(user)
		if user == "" {
			return nil, fmt.Errorf("missing participant in %q", part)
		}

		spec := shareSpec{user: user}
		if custom {
			d, err := decimal.NewFromString(strings.TrimSpace(amt))
			if err != nil {
				return nil, fmt.Errorf("invalid amount for %s: %w", user, err)
			}
			spec.amount = decimal.NewNullDecimal(d)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// shares resolves user references in specs.
func (s *session) shares(specs []shareSpec) ([]models.Share, error) {
	out := make([]models.Share, len(specs))
	for i, spec := range specs {
		id, err := s.resolveUser(spec.user)
		if err != nil {
			return nil, err
		}
		out[i] = models.Share{UserID: id, Amount: spec.amount}
	}
	return out, nil
}

// formatShares renders shares back into the -with syntax using names.
func formatShares(names map[string]string, shares []models.Share) string {
	parts := make([]string, len(shares))
	for i, sh := range shares {
		parts[i] = name(names, sh.UserID)
		if sh.IsCustom() {
			parts[i] += ":" + sh.Amount.Decimal.String()
		}
	}
	return strings.Join(parts, ",")
}
