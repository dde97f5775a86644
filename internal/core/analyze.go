package core

import "sort"

// Analysis is a read-only preview of what an import would do.
// No store is touched to compute it.
type Analysis struct {
	Columns             []string `json:"columns"`
	UnrecognizedColumns []string `json:"unrecognizedColumns"`
	DataRows            int      `json:"dataRows"`
	Nodes               int      `json:"nodes"`
	SoldNodes           int      `json:"soldNodes"`
	ProductionNodes     int      `json:"productionNodes"`
	SupplyOnlyNodes     int      `json:"supplyOnlyNodes"`
	DuplicateHandleRows int      `json:"duplicateHandleRows"`
	Suppliers           int      `json:"suppliers"`
	RecipeParents       int      `json:"recipeParents"`
	RecipeComponents    int      `json:"recipeComponents"`

	// ExternalComponentSKUs are component SKUs no node in the file defines.
	// They resolve only if the tenant already has them; otherwise they are dropped.
	ExternalComponentSKUs []string `json:"externalComponentSkus"`
}

// Analyze previews rows, where rows[0] is the header.
func Analyze(rows [][]string) (*Analysis, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	cols, err := NormalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}
	records := decodeRows(cols, rows[1:])

	a := &Analysis{
		Columns:             cols.Columns(),
		UnrecognizedColumns: cols.Unrecognized(),
		DataRows:            len(records),
	}
	if cols.Has(FieldSupplier) {
		a.Suppliers = len(supplierNames(records))
	}

	nodes := newNodeSet()
	skus := make(map[string]bool)
	for i, rec := range records {
		if rec.Handle == "" {
			continue
		}
		n, added := nodes.add(extractNode(rec, i+2, nil))
		if !added {
			a.DuplicateHandleRows++
			continue
		}
		skus[n.SKU] = true
		switch {
		case n.IsSold:
			a.SoldNodes++
		default:
			a.SupplyOnlyNodes++
		}
		if n.IsProduction {
			a.ProductionNodes++
		}
	}
	a.Nodes = nodes.len()

	acc := accumulateRecipes(records)
	a.RecipeParents = len(acc.parents)
	a.RecipeComponents = acc.componentCount()

	external := make(map[string]bool)
	for _, refs := range acc.components {
		for _, ref := range refs {
			if !skus[ref.ComponentSKU] {
				external[ref.ComponentSKU] = true
			}
		}
	}
	a.ExternalComponentSKUs = make([]string, 0, len(external))
	for sku := range external {
		a.ExternalComponentSKUs = append(a.ExternalComponentSKUs, sku)
	}
	sort.Strings(a.ExternalComponentSKUs)

	return a, nil
}
