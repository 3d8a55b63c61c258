package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/repository"
)

// EmptyShoppingList is rendered when the cart yields no ingredient groups.
const EmptyShoppingList = "Shopping list is empty."

// ShoppingListService renders the aggregated shopping list for a user's
// cart. Read-only; it takes whatever committed state exists at query time.
type ShoppingListService struct {
	repo *repository.Repository
}

func NewShoppingListService(repo *repository.Repository) *ShoppingListService {
	return &ShoppingListService{repo: repo}
}

// Render sums ingredient amounts across the user's cart and produces one
// line per (name, unit) group, ordered byte-wise by name. Sorting happens
// here so the ordering does not depend on the database collation.
func (s *ShoppingListService) Render(ctx context.Context, userID uuid.UUID) (string, error) {
	rows, err := s.repo.ShoppingListRows(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return EmptyShoppingList, nil
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].MeasurementUnit < rows[j].MeasurementUnit
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s — %d %s", row.Name, row.Total, row.MeasurementUnit))
	}
	return strings.Join(lines, "\n"), nil
}
