package core

import "fmt"

// MaxErrorSamples bounds Summary.Errors. ErrorCount carries the real total.
const MaxErrorSamples = 5

// EntityKind names the aggregate a persistence operation touched.
type EntityKind string

const (
	EntitySupplier         EntityKind = "Supplier"
	EntitySupplyItem       EntityKind = "SupplyItem"
	EntityProduct          EntityKind = "Product"
	EntityProductRecipe    EntityKind = "ProductRecipe"
	EntityProductionRecipe EntityKind = "ProductionRecipe"
)

// Outcome is the result of one per-entity persistence operation.
// A nil Err means success.
type Outcome struct {
	Kind EntityKind
	Key  string
	Err  error
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// String formats a failed outcome as "<EntityKind> <key>: <message>".
func (o Outcome) String() string {
	if o.Err == nil {
		return fmt.Sprintf("%s %s: ok", o.Kind, o.Key)
	}
	return fmt.Sprintf("%s %s: %v", o.Kind, o.Key, o.Err)
}

// errorLog aggregates failed outcomes into the bounded summary fields.
type errorLog struct {
	samples []string
	count   int
	byKind  map[EntityKind]int
}

func newErrorLog() *errorLog {
	return &errorLog{byKind: make(map[EntityKind]int)}
}

// record adds o if it failed and reports whether it did.
func (l *errorLog) record(o Outcome) bool {
	if o.OK() {
		return false
	}
	l.count++
	l.byKind[o.Kind]++
	if len(l.samples) < MaxErrorSamples {
		l.samples = append(l.samples, o.String())
	}
	return true
}

func (l *errorLog) apply(s *Summary) {
	s.Errors = append([]string{}, l.samples...)
	s.ErrorCount = l.count
	if len(l.byKind) > 0 {
		s.ErrorsByKind = make(map[EntityKind]int, len(l.byKind))
		for k, v := range l.byKind {
			s.ErrorsByKind[k] = v
		}
	}
}
