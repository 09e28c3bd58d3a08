// Package schema reduces arbitrary JSON-Schema draft-07 tool-parameter
// fragments to the subset Gemini's function-declaration validator accepts
// (spec §4.1).
package schema

import "fmt"

// forbidden keywords are dropped wherever they appear (rule 7).
var forbidden = map[string]bool{
	"exclusiveMinimum":     true,
	"exclusiveMaximum":     true,
	"propertyNames":        true,
	"minProperties":        true,
	"maxProperties":        true,
	"default":              true,
	"$schema":              true,
	"$id":                  true,
	"additionalProperties": true,
	"title":                true,
	"examples":             true,
	"definitions":          true,
}

// Normalize applies the rules in spec §4.1 recursively and returns a new
// schema value; the input is never mutated in place.
func Normalize(in any) any {
	return normalize(in, nil)
}

// definitions is threaded through the recursion so $ref can resolve
// against the root's definitions map even several levels down.
func normalize(in any, definitions map[string]any) any {
	obj, ok := in.(map[string]any)
	if !ok {
		arr, ok := in.([]any)
		if !ok {
			return in // rule 8: non-object, non-array returned unchanged
		}
		out := make([]any, len(arr))
		for i, v := range arr {
			out[i] = normalize(v, definitions)
		}
		return out
	}

	if definitions == nil {
		if d, ok := obj["definitions"].(map[string]any); ok {
			definitions = d
		} else {
			definitions = map[string]any{}
		}
	}

	if ref, ok := obj["$ref"].(string); ok {
		return resolveRef(ref, definitions)
	}

	out := map[string]any{}
	for k, v := range obj {
		if forbidden[k] || k == "$ref" {
			continue
		}
		switch k {
		case "allOf":
			mergeAllOf(out, v, definitions)
		case "oneOf", "anyOf":
			applyUnionOf(out, v, definitions)
		case "const":
			applyConst(out, v)
		case "enum":
			applyEnum(out, v)
		case "type":
			applyType(out, v)
		default:
			out[k] = normalize(v, definitions)
		}
	}
	return out
}

// resolveRef inlines "#/definitions/X"; unknown refs become {} (rule 1).
func resolveRef(ref string, definitions map[string]any) any {
	const prefix = "#/definitions/"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return map[string]any{}
	}
	name := ref[len(prefix):]
	target, ok := definitions[name]
	if !ok {
		return map[string]any{}
	}
	return normalize(deepCopy(target), definitions)
}

// mergeAllOf resolves each member and merges it into out, last-writer-wins
// (rule 2).
func mergeAllOf(out map[string]any, v any, definitions map[string]any) {
	members, ok := v.([]any)
	if !ok {
		return
	}
	for _, m := range members {
		resolved := normalize(m, definitions)
		mobj, ok := resolved.(map[string]any)
		if !ok {
			continue
		}
		for k, val := range mobj {
			out[k] = val
		}
	}
}

// applyUnionOf implements rule 4: const-only members collapse to a string
// enum; otherwise the first member with a type wins (default "string").
func applyUnionOf(out map[string]any, v any, definitions map[string]any) {
	members, ok := v.([]any)
	if !ok || len(members) == 0 {
		return
	}

	allConst := true
	enumVals := make([]string, 0, len(members))
	for _, m := range members {
		mobj, ok := m.(map[string]any)
		if !ok {
			allConst = false
			break
		}
		cv, hasConst := mobj["const"]
		if !hasConst {
			allConst = false
			break
		}
		enumVals = append(enumVals, stringify(cv))
	}
	if allConst {
		out["type"] = "string"
		out["enum"] = toAnySlice(enumVals)
		return
	}

	for _, m := range members {
		resolved := normalize(m, definitions)
		mobj, ok := resolved.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := mobj["type"]; ok {
			for k, val := range mobj {
				out[k] = val
			}
			_ = t
			return
		}
	}
	out["type"] = "string"
}

// applyConst implements rule 5: collapse to a single-element enum, typed
// from the value's primitive kind.
func applyConst(out map[string]any, v any) {
	out["type"] = primitiveType(v)
	out["enum"] = []any{stringify(v)}
}

// applyEnum implements rule 6: Gemini enums must be type=string, stringified.
func applyEnum(out map[string]any, v any) {
	arr, ok := v.([]any)
	if !ok {
		return
	}
	out["type"] = "string"
	vals := make([]any, len(arr))
	for i, e := range arr {
		vals[i] = stringify(e)
	}
	out["enum"] = vals
}

// applyType implements rule 3: union type arrays collapse to a single
// type, nullable when paired with "null".
func applyType(out map[string]any, v any) {
	switch t := v.(type) {
	case string:
		out["type"] = t
	case []any:
		if len(t) == 0 {
			out["type"] = "string"
			return
		}
		var nonNull []string
		hasNull := false
		for _, e := range t {
			s, _ := e.(string)
			if s == "null" {
				hasNull = true
				continue
			}
			if s != "" {
				nonNull = append(nonNull, s)
			}
		}
		switch {
		case hasNull && len(nonNull) == 1:
			out["type"] = nonNull[0]
			out["nullable"] = true
		case len(nonNull) > 0:
			out["type"] = nonNull[0]
		default:
			out["type"] = "string"
		}
	}
}

func primitiveType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return "string"
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
