package postgres

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type recipeTable struct {
	name      string
	parentCol string
	childCol  string
}

var (
	productRecipes    = recipeTable{"product_recipe_items", "product_id", "supply_item_id"}
	productionRecipes = recipeTable{"production_recipe_items", "supply_item_id", "component_id"}
)

func (s *Store) ReplaceProductRecipe(ctx context.Context, productID uuid.UUID, edges []core.RecipeEdge) error {
	return s.replaceRecipe(ctx, productRecipes, productID, edges)
}

func (s *Store) ReplaceProductionRecipe(ctx context.Context, supplyItemID uuid.UUID, edges []core.RecipeEdge) error {
	return s.replaceRecipe(ctx, productionRecipes, supplyItemID, edges)
}

// replaceRecipe deletes every edge of parentID and inserts edges in order,
// all in one transaction.
func (s *Store) replaceRecipe(ctx context.Context, t recipeTable, parentID uuid.UUID, edges []core.RecipeEdge) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.parentCol)
	if _, err := tx.Exec(ctx, del, parentID); err != nil {
		return fmt.Errorf("clear %s: %w", t.name, err)
	}

	ins := fmt.Sprintf(
		`INSERT INTO %s (%s, position, %s, quantity) VALUES ($1, $2, $3, $4::numeric)`,
		t.name, t.parentCol, t.childCol,
	)
	batch := &pgx.Batch{}
	for i, e := range edges {
		batch.Queue(ins, parentID, i, e.ComponentID, numeric(e.Quantity))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
