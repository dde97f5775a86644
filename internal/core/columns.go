package core

// columns.go maps the exporter's header row onto logical columns and decodes
// data rows into records.
//
// Header cells are normalized (trim, BOM strip, lowercase) and stored by
// position. Logical fields are then resolved through alias lists in order;
// the first alias present in the header wins. Only the handle column is
// required: every other missing column silently disables its feature.

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMissingHandleColumn is returned when the header has no identity column.
var ErrMissingHandleColumn = errors.New("missing required column \"handle\"")

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("empty file")

// Field is a logical column of the export.
type Field string

const (
	FieldHandle       Field = "handle"
	FieldName         Field = "name"
	FieldSKU          Field = "sku"
	FieldCategory     Field = "category"
	FieldPrice        Field = "price"
	FieldCost         Field = "cost"
	FieldComponentSKU Field = "componentSku"
	FieldComponentQty Field = "componentQty"
	FieldSupplier     Field = "supplier"
	FieldPurchaseCost Field = "purchaseCost"
)

type fieldAliases struct {
	field    Field
	aliases  []string
	prefixes []string // matched after exact aliases, in header order
}

// columnAliases lists the accepted header spellings per field, compared after
// lowercasing and diacritic folding.
var columnAliases = []fieldAliases{
	{field: FieldHandle, aliases: []string{"handle"}},
	{field: FieldName, aliases: []string{"nombre", "name"}},
	{field: FieldSKU, aliases: []string{"ref", "sku"}},
	{field: FieldCategory, aliases: []string{"categoria", "category"}},
	{field: FieldPrice, aliases: []string{"precio", "price"}, prefixes: []string{"precio [", "price ["}},
	{field: FieldCost, aliases: []string{"coste", "cost"}},
	{field: FieldComponentSKU, aliases: []string{"ref del componente", "component sku"}},
	{field: FieldComponentQty, aliases: []string{"cantidad del componente", "component quantity"}},
	{field: FieldSupplier, aliases: []string{"proveedor", "supplier", "vendor"}},
	{field: FieldPurchaseCost, aliases: []string{"costo de compra", "purchase cost"}},
}

// ColumnMap resolves logical fields to row positions. It is built once per
// ingestion and never mutated afterwards.
type ColumnMap struct {
	headers []string       // normalized header cells in file order
	index   map[string]int // normalized header -> first position
	fields  map[Field]int
}

// NormalizeHeader builds a ColumnMap from the header row.
// Returns ErrMissingHandleColumn, listing every discovered column, when the
// identity column is absent.
func NormalizeHeader(header []string) (*ColumnMap, error) {
	m := &ColumnMap{
		headers: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
		fields:  make(map[Field]int, len(columnAliases)),
	}

	for i, cell := range header {
		key := normalizeHeaderCell(cell)
		m.headers[i] = key
		if key == "" {
			continue
		}
		if _, seen := m.index[key]; !seen {
			m.index[key] = i
		}
	}

	folded := make(map[string]int, len(m.index))
	for i, key := range m.headers {
		f := foldDiacritics(key)
		if _, seen := folded[f]; !seen && key != "" {
			folded[f] = i
		}
	}

	for _, fa := range columnAliases {
		if pos, ok := resolveAlias(fa, folded, m.headers); ok {
			m.fields[fa.field] = pos
		}
	}

	if !m.Has(FieldHandle) {
		return nil, fmt.Errorf("%w (found columns: %s)", ErrMissingHandleColumn, strings.Join(m.Columns(), ", "))
	}

	return m, nil
}

func resolveAlias(fa fieldAliases, folded map[string]int, headers []string) (int, bool) {
	for _, alias := range fa.aliases {
		if pos, ok := folded[alias]; ok {
			return pos, true
		}
	}
	for i, h := range headers {
		f := foldDiacritics(h)
		for _, prefix := range fa.prefixes {
			if strings.HasPrefix(f, prefix) {
				return i, true
			}
		}
	}
	return 0, false
}

// normalizeHeaderCell trims, strips a leading byte-order mark and lowercases.
func normalizeHeaderCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

// foldDiacritics maps "categoría" to "categoria".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Has reports whether the field was found in the header.
func (m *ColumnMap) Has(f Field) bool {
	_, ok := m.fields[f]
	return ok
}

// Position returns the row position of a field.
func (m *ColumnMap) Position(f Field) (int, bool) {
	pos, ok := m.fields[f]
	return pos, ok
}

// Columns returns the discovered normalized column names, sorted.
func (m *ColumnMap) Columns() []string {
	cols := make([]string, 0, len(m.index))
	for k := range m.index {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Unrecognized returns header columns not bound to any field, in file order.
func (m *ColumnMap) Unrecognized() []string {
	bound := make(map[int]bool, len(m.fields))
	for _, pos := range m.fields {
		bound[pos] = true
	}
	var out []string
	for i, h := range m.headers {
		if h != "" && !bound[i] {
			out = append(out, h)
		}
	}
	return out
}

// Record is a data row decoded through the ColumnMap. Missing columns and
// short rows decode to empty strings.
type Record struct {
	Handle       string
	SKU          string
	Name         string
	Category     string
	Price        string
	Cost         string
	PurchaseCost string
	Supplier     string
	ComponentSKU string
	ComponentQty string
}

// Decode is the only place positional cells are read.
func (m *ColumnMap) Decode(row []string) Record {
	return Record{
		Handle:       m.cell(row, FieldHandle),
		SKU:          m.cell(row, FieldSKU),
		Name:         m.cell(row, FieldName),
		Category:     m.cell(row, FieldCategory),
		Price:        strings.ToLower(m.cell(row, FieldPrice)),
		Cost:         m.cell(row, FieldCost),
		PurchaseCost: m.cell(row, FieldPurchaseCost),
		Supplier:     m.cell(row, FieldSupplier),
		ComponentSKU: m.cell(row, FieldComponentSKU),
		ComponentQty: m.cell(row, FieldComponentQty),
	}
}

func (m *ColumnMap) cell(row []string, f Field) string {
	pos, ok := m.fields[f]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}
