package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nodeSet holds one CatalogNode per distinct handle, in first-seen order.
type nodeSet struct {
	order    []string
	byHandle map[string]*CatalogNode
}

func newNodeSet() *nodeSet {
	return &nodeSet{byHandle: make(map[string]*CatalogNode)}
}

func (s *nodeSet) get(handle string) (*CatalogNode, bool) {
	n, ok := s.byHandle[handle]
	return n, ok
}

// add stores n unless its handle is already known. The first occurrence wins.
func (s *nodeSet) add(n CatalogNode) (*CatalogNode, bool) {
	if existing, ok := s.byHandle[n.Handle]; ok {
		return existing, false
	}
	node := &n
	s.byHandle[n.Handle] = node
	s.order = append(s.order, n.Handle)
	return node, true
}

func (s *nodeSet) len() int { return len(s.order) }

// extractNode builds the node for the first row bearing rec.Handle.
// Numeric cells that do not parse count as zero.
func extractNode(rec Record, line int, suppliers map[string]uuid.UUID) CatalogNode {
	n := CatalogNode{
		Handle:   rec.Handle,
		SKU:      rec.SKU,
		Name:     rec.Name,
		Category: rec.Category,
		Line:     line,
	}
	if n.SKU == "" {
		n.SKU = n.Handle
	}
	if n.Name == "" {
		n.Name = n.Handle
	}
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	n.IsProduction = isProductionCategory(n.Category)

	n.Cost = nodeCost(rec.PurchaseCost, rec.Cost)
	n.Price = AmountOrZero(strings.ToLower(strings.TrimSpace(rec.Price)))
	n.IsSold = n.Price.GreaterThan(decimal.Zero)

	if id, ok := suppliers[strings.TrimSpace(rec.Supplier)]; ok {
		n.SupplierID = &id
	}
	return n
}

// nodeCost prefers a positive purchase cost over the plain cost column.
func nodeCost(purchaseCost, cost string) decimal.Decimal {
	if pc, ok := ParseAmount(purchaseCost); ok && pc.GreaterThan(decimal.Zero) {
		return pc
	}
	return AmountOrZero(cost)
}

func isProductionCategory(category string) bool {
	c := strings.ToLower(category)
	for _, kw := range productionKeywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}
