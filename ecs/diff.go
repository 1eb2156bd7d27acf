package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// PropertyDiff names one changed field on a component and renders its new
// value for human and log consumption.
type PropertyDiff struct {
	PropertyName string
	NewValue     string
}

// Differ lets a component type supply its own diff logic instead of the
// reflect-based default. Implement it when field-by-field reflection would
// be misleading, e.g. a component whose equality is defined by a subset of
// its fields.
type Differ interface {
	Diff(other any) []PropertyDiff
}

// diffValues compares old and new snapshots of the same component type and
// returns the properties that changed. Components implementing Differ are
// delegated to directly; everything else is diffed field-by-field via
// reflection, recursing into nested structs, slices, and maps the way the
// Rust original's Vec/HashMap Diffable impls do.
func diffValues(oldV, newV any) []PropertyDiff {
	if d, ok := oldV.(Differ); ok {
		return d.Diff(newV)
	}
	return diffReflect(reflect.ValueOf(oldV), reflect.ValueOf(newV), "")
}

func diffReflect(oldV, newV reflect.Value, prefix string) []PropertyDiff {
	if !oldV.IsValid() || !newV.IsValid() {
		if oldV.IsValid() != newV.IsValid() {
			return []PropertyDiff{{PropertyName: leafName(prefix), NewValue: renderValue(newV)}}
		}
		return nil
	}

	switch oldV.Kind() {
	case reflect.Struct:
		return diffStruct(oldV, newV, prefix)
	case reflect.Slice, reflect.Array:
		return diffSlice(oldV, newV, prefix)
	case reflect.Map:
		return diffMap(oldV, newV, prefix)
	case reflect.Ptr:
		if oldV.IsNil() != newV.IsNil() {
			return []PropertyDiff{{PropertyName: leafName(prefix), NewValue: renderValue(newV)}}
		}
		if oldV.IsNil() {
			return nil
		}
		return diffReflect(oldV.Elem(), newV.Elem(), prefix)
	default:
		if equalScalar(oldV, newV) {
			return nil
		}
		return []PropertyDiff{{PropertyName: leafName(prefix), NewValue: renderValue(newV)}}
	}
}

func diffStruct(oldV, newV reflect.Value, prefix string) []PropertyDiff {
	var changes []PropertyDiff
	t := oldV.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		fieldName := field.Name
		if prefix != "" {
			fieldName = prefix + "." + field.Name
		}
		changes = append(changes, diffReflect(oldV.Field(i), newV.Field(i), fieldName)...)
	}
	return changes
}

func diffSlice(oldV, newV reflect.Value, prefix string) []PropertyDiff {
	if oldV.Len() != newV.Len() {
		return []PropertyDiff{{
			PropertyName: leafName(prefix),
			NewValue:     fmt.Sprintf("slice with %d elements", newV.Len()),
		}}
	}
	var changes []PropertyDiff
	for i := 0; i < oldV.Len(); i++ {
		elemName := fmt.Sprintf("%s[%d]", prefix, i)
		changes = append(changes, diffReflect(oldV.Index(i), newV.Index(i), elemName)...)
	}
	return changes
}

func diffMap(oldV, newV reflect.Value, prefix string) []PropertyDiff {
	var changes []PropertyDiff

	newKeys := newV.MapKeys()
	sort.Slice(newKeys, func(i, j int) bool {
		return fmt.Sprint(newKeys[i].Interface()) < fmt.Sprint(newKeys[j].Interface())
	})
	for _, k := range newKeys {
		keyName := fmt.Sprintf("%s[%v]", prefix, k.Interface())
		oldVal := oldV.MapIndex(k)
		newVal := newV.MapIndex(k)
		if !oldVal.IsValid() {
			changes = append(changes, PropertyDiff{PropertyName: keyName, NewValue: "added"})
			continue
		}
		changes = append(changes, diffReflect(oldVal, newVal, keyName)...)
	}

	oldKeys := oldV.MapKeys()
	sort.Slice(oldKeys, func(i, j int) bool {
		return fmt.Sprint(oldKeys[i].Interface()) < fmt.Sprint(oldKeys[j].Interface())
	})
	for _, k := range oldKeys {
		if !newV.MapIndex(k).IsValid() {
			changes = append(changes, PropertyDiff{
				PropertyName: fmt.Sprintf("%s[%v]", prefix, k.Interface()),
				NewValue:     "removed",
			})
		}
	}

	return changes
}

func equalScalar(a, b reflect.Value) bool {
	if a.Kind() == reflect.Float32 || a.Kind() == reflect.Float64 {
		return a.Float() == b.Float()
	}
	return a.Interface() == b.Interface()
}

func renderValue(v reflect.Value) string {
	if !v.IsValid() {
		return "<none>"
	}
	return fmt.Sprintf("%v", v.Interface())
}

func leafName(prefix string) string {
	if prefix == "" {
		return "value"
	}
	return prefix
}
