package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/pulseecs/pulseecs/ecs"
)

// EntityBrowser lists every live entity alongside the component types it
// currently holds, with an optional text filter and a read-only expansion
// of each component's field values.
type EntityBrowser struct {
	filterText string
}

// NewEntityBrowser creates an EntityBrowser with no filter applied.
func NewEntityBrowser() *EntityBrowser {
	return &EntityBrowser{}
}

// Render draws the entity browser window.
func (eb *EntityBrowser) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.InputTextWithHint("##search", "Filter by type name...", &eb.filterText, imgui.InputTextFlagsNone, nil)

	types := w.ComponentTypes()
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

	for _, e := range w.Entities() {
		var matches []reflect.Type
		for _, t := range types {
			if !w.HasComponentType(e, t) {
				continue
			}
			if eb.filterText != "" && !strings.Contains(strings.ToLower(t.String()), strings.ToLower(eb.filterText)) {
				continue
			}
			matches = append(matches, t)
		}
		if eb.filterText != "" && len(matches) == 0 {
			continue
		}

		label := fmt.Sprintf("Entity %d (%d components)", e, len(matches))
		if !imgui.TreeNodeStr(label) {
			continue
		}
		for _, t := range matches {
			value, ok := w.ComponentValue(e, t)
			if !ok {
				continue
			}
			if imgui.TreeNodeStr(t.String()) {
				renderValue(value)
				imgui.TreePop()
			}
		}
		imgui.TreePop()
	}
}

func renderValue(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("%v", v))
		return
	}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr && !fv.IsNil() {
			fv = fv.Elem()
		}
		imgui.Text(fmt.Sprintf("%s: %v", field.Name, renderableInterface(fv)))
	}
}

func renderableInterface(v reflect.Value) any {
	if !v.IsValid() {
		return "<nil>"
	}
	return v.Interface()
}
