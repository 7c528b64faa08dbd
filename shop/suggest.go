package shop

import (
	"context"
	"strings"
	"time"

	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/utils"
)

const DefaultSuggestionLimit = 5

// Suggestion is a compact search hit for type-ahead.
type Suggestion struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Suggest waits delay, then returns up to limit products whose name or
// description contains term. A cancelled ctx abandons the lookup.
func Suggest(ctx context.Context, products []models.Product, term string, limit int, delay time.Duration) ([]Suggestion, error) {
	folded := utils.Fold(strings.TrimSpace(term))
	if folded == "" {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	out := make([]Suggestion, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if !strings.Contains(utils.Fold(p.Name), folded) && !strings.Contains(utils.Fold(p.Description), folded) {
			continue
		}
		name := p.Name
		if name == "" {
			name = "Unnamed Product"
		}
		category := p.Category
		if category == "" {
			category = "Uncategorized"
		}
		out = append(out, Suggestion{
			ID:       p.ID,
			Name:     name,
			Image:    p.PrimaryImage(),
			Price:    p.Price,
			Category: category,
		})
	}
	return out, nil
}
