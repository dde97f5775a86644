package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeHeader_Aliases(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   map[Field]int
	}{
		{
			name:   "english",
			header: []string{"Handle", "SKU", "Name", "Category", "Price", "Cost"},
			want: map[Field]int{
				FieldHandle: 0, FieldSKU: 1, FieldName: 2, FieldCategory: 3, FieldPrice: 4, FieldCost: 5,
			},
		},
		{
			name:   "spanish with diacritics",
			header: []string{"Handle", "REF", "Nombre", "Categor\u00eda", "Precio", "Coste", "Proveedor", "Costo de compra"},
			want: map[Field]int{
				FieldHandle: 0, FieldSKU: 1, FieldName: 2, FieldCategory: 3, FieldPrice: 4,
				FieldCost: 5, FieldSupplier: 6, FieldPurchaseCost: 7,
			},
		},
		{
			name:   "recipe columns",
			header: []string{"Handle", "Ref del Componente", "Cantidad del Componente"},
			want: map[Field]int{
				FieldHandle: 0, FieldComponentSKU: 1, FieldComponentQty: 2,
			},
		},
		{
			name:   "store-specific price column",
			header: []string{"Handle", "Precio [Tienda Centro]"},
			want:   map[Field]int{FieldHandle: 0, FieldPrice: 1},
		},
		{
			name:   "BOM and padding",
			header: []string{"\ufeff Handle ", "  name"},
			want:   map[Field]int{FieldHandle: 0, FieldName: 1},
		},
		{
			name:   "first duplicate wins",
			header: []string{"Handle", "Name", "name"},
			want:   map[Field]int{FieldHandle: 0, FieldName: 1},
		},
		{
			name:   "spanish alias preferred over english",
			header: []string{"Handle", "Name", "Nombre"},
			want:   map[Field]int{FieldHandle: 0, FieldName: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := NormalizeHeader(tt.header)
			if err != nil {
				t.Fatalf("NormalizeHeader: %v", err)
			}
			if !reflect.DeepEqual(cols.fields, tt.want) {
				t.Errorf("fields = %v, want %v", cols.fields, tt.want)
			}
		})
	}
}

func TestNormalizeHeader_MissingHandle(t *testing.T) {
	_, err := NormalizeHeader([]string{"Name", "Price", "Mystery"})
	if !errors.Is(err, ErrMissingHandleColumn) {
		t.Fatalf("err = %v, want ErrMissingHandleColumn", err)
	}
	for _, col := range []string{"name", "price", "mystery"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q should list column %q", err, col)
		}
	}
}

func TestColumnMap_Unrecognized(t *testing.T) {
	cols, err := NormalizeHeader([]string{"Handle", "Name", "Tax Rate", "", "Barcode"})
	if err != nil {
		t.Fatalf("NormalizeHeader: %v", err)
	}
	want := []string{"tax rate", "barcode"}
	if got := cols.Unrecognized(); !reflect.DeepEqual(got, want) {
		t.Errorf("Unrecognized = %v, want %v", got, want)
	}
	if got := cols.Columns(); !reflect.DeepEqual(got, []string{"barcode", "handle", "name", "tax rate"}) {
		t.Errorf("Columns = %v", got)
	}
}

func TestColumnMap_Decode(t *testing.T) {
	cols, err := NormalizeHeader([]string{"Handle", "Name", "Price", "Ref del Componente", "Cantidad del Componente"})
	if err != nil {
		t.Fatalf("NormalizeHeader: %v", err)
	}

	tests := []struct {
		name string
		row  []string
		want Record
	}{
		{
			name: "full row",
			row:  []string{" burger1 ", "Burger", "8,50 EUR", "", ""},
			want: Record{Handle: "burger1", Name: "Burger", Price: "8,50 eur"},
		},
		{
			name: "short row",
			row:  []string{"burger1"},
			want: Record{Handle: "burger1"},
		},
		{
			name: "component row",
			row:  []string{"", "", "", `="tomato"`, "2"},
			want: Record{ComponentSKU: "tomato", ComponentQty: "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cols.Decode(tt.row); got != tt.want {
				t.Errorf("Decode = %+v, want %+v", got, tt.want)
			}
		})
	}
}
