package readscope

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/rawbytedev/readscope/internal/common"
)

// structPlan is the cached field layout of a struct type. Only exported
// fields take part, in declaration order, with no padding between them.
type structPlan struct {
	width  int
	fields []structField
}

type structField struct {
	idx  int
	kind reflect.Kind
	size int
}

var (
	planMu sync.RWMutex
	plans  = make(map[reflect.Type]*structPlan)
)

func getPlan(t reflect.Type) (*structPlan, error) {
	planMu.RLock()
	if plan, ok := plans[t]; ok {
		planMu.RUnlock()
		return plan, nil
	}
	planMu.RUnlock()

	planMu.Lock()
	defer planMu.Unlock()

	// Double-check
	if plan, ok := plans[t]; ok {
		return plan, nil
	}

	plan := &structPlan{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue // skip unexported, embedded ones included
		}
		kind := sf.Type.Kind()
		if !common.IsFixedKind(kind) {
			return nil, fmt.Errorf("%w: %s.%s is %s", ErrUnsupported, t.Name(), sf.Name, kind)
		}
		size := common.FixedSize(kind)
		plan.fields = append(plan.fields, structField{idx: i, kind: kind, size: size})
		plan.width += size
	}
	plans[t] = plan
	return plan, nil
}

// Struct decodes a flat struct of fixed-width primitive fields.
type Struct[T any] struct {
	plan  *structPlan
	order binary.ByteOrder
}

// StructOf builds a decoder for T, which must be a struct whose exported
// fields are all bools, sized integers or floats. Multi-byte fields use
// order.
func StructOf[T any](order binary.ByteOrder) (Struct[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return Struct[T]{}, ErrNotStruct
	}
	plan, err := getPlan(t)
	if err != nil {
		return Struct[T]{}, err
	}
	return Struct[T]{plan: plan, order: order}, nil
}

func (s Struct[T]) Width() int { return s.plan.width }

func (s Struct[T]) ReadUnchecked(w *Window) T {
	var out T
	dst := reflect.ValueOf(&out).Elem()
	for _, f := range s.plan.fields {
		common.SetFixed(dst.Field(f.idx), w.Bytes(f.size), f.kind, s.order)
	}
	return out
}
