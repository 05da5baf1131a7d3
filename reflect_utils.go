package lossy

import (
	"reflect"
	"strings"
	"sync"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key.
// Priority: lossy:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if lt := sf.Tag.Get("lossy"); lt != "" {
		if lt == "-" {
			return "-"
		}
		for _, p := range strings.Split(lt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// structField is a decodable field, possibly promoted from an embedded struct.
type structField struct {
	key   string
	index []int
	typ   reflect.Type
}

var fieldCache sync.Map // map[reflect.Type][]structField

// structFields lists the decodable fields of t. Fields of embedded structs
// without an explicit key are promoted; shallower fields win name conflicts.
func structFields(t reflect.Type) []structField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]structField)
	}
	var out []structField
	seen := map[string]bool{}
	type pending struct {
		typ   reflect.Type
		index []int
	}
	level := []pending{{typ: t}}
	visited := map[reflect.Type]bool{}
	for len(level) > 0 {
		var next []pending
		var found []structField
		for _, p := range level {
			if visited[p.typ] {
				continue
			}
			visited[p.typ] = true
			for i := 0; i < p.typ.NumField(); i++ {
				sf := p.typ.Field(i)
				idx := append(append([]int{}, p.index...), i)
				key := ResolveStructKey(sf)
				if key == "-" {
					continue
				}
				if sf.Anonymous && !hasExplicitKey(sf) {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						if !sf.IsExported() {
							continue
						}
						ft = ft.Elem()
					}
					if ft.Kind() == reflect.Struct {
						next = append(next, pending{typ: ft, index: idx})
						continue
					}
				}
				if !sf.IsExported() {
					continue
				}
				found = append(found, structField{key: key, index: idx, typ: sf.Type})
			}
		}
		for _, f := range found {
			if seen[f.key] {
				continue
			}
			seen[f.key] = true
			out = append(out, f)
		}
		level = next
	}
	fieldCache.Store(t, out)
	return out
}

func hasExplicitKey(sf reflect.StructField) bool {
	if jt := sf.Tag.Get("json"); jt != "" && !strings.HasPrefix(jt, ",") {
		return true
	}
	return strings.Contains(sf.Tag.Get("lossy"), "name=")
}

// fieldByIndexAlloc walks index from v, allocating nil embedded pointers.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
