package bisquit

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// formField is one named value extracted from the document.
type formField struct {
	name  string
	value any
}

// serializeForm collects the named, enabled form fields of root (root
// included) into a nested payload. Field names are paths: "a.b" nests,
// "a[]" appends to a list, "a[2]" and "a[k]" index into a list or map.
func serializeForm(root *html.Node) (map[string]any, error) {
	fields := collectFields(root)
	if len(fields) == 0 {
		return map[string]any{}, nil
	}

	doc := "{}"
	var err error
	for _, f := range fields {
		doc, err = setPath(doc, fieldPath(f.name), f.value)
		if err != nil {
			return nil, err
		}
	}

	out := map[string]any{}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectFields(root *html.Node) []formField {
	var out []formField
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isElement(n) {
			if isField(n) {
				if f, ok := extractField(n); ok {
					out = append(out, f...)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// extractField returns the values a single control contributes.
func extractField(n *html.Node) ([]formField, bool) {
	name := attr(n, "name")
	if name == "" || isDisabled(n) {
		return nil, false
	}

	switch n.DataAtom {
	case atom.Button:
		return nil, false
	case atom.Textarea:
		return []formField{{name, textContent(n)}}, true
	case atom.Select:
		vals := selectedValues(n)
		if hasAttr(n, "multiple") {
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			return []formField{{name, list}}, true
		}
		if len(vals) == 0 {
			return nil, false
		}
		return []formField{{name, vals[0]}}, true
	}

	value := fieldValue(n)
	switch inputType(n) {
	case "button", "submit", "reset", "image", "file":
		return nil, false
	case "radio":
		if !hasAttr(n, "checked") {
			return nil, false
		}
		if value == "true" {
			return []formField{{name, true}}, true
		}
		return []formField{{name, value}}, true
	case "checkbox":
		checked := hasAttr(n, "checked")
		switch {
		case value == "true":
			return []formField{{name, checked}}, true
		case checked:
			return []formField{{name, value}}, true
		}
		return nil, false
	}
	return []formField{{name, value}}, true
}

// pathSegment is one step of a field path; list steps index or append.
type pathSegment struct {
	key    string
	list   bool
	append bool
}

// fieldPath splits a field name like "order.items[].sku" or "tags[2]".
func fieldPath(name string) []pathSegment {
	var segs []pathSegment
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			continue
		}
		head, rest, _ := strings.Cut(part, "[")
		if head != "" {
			segs = append(segs, pathSegment{key: head})
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				segs = append(segs, pathSegment{key: idx})
				break
			}
			switch {
			case idx == "":
				segs = append(segs, pathSegment{list: true, append: true})
			case isIndex(idx):
				segs = append(segs, pathSegment{key: idx, list: true})
			default:
				segs = append(segs, pathSegment{key: idx})
			}
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return segs
}

func isIndex(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// setPath writes value at segs into the JSON document. Intermediate
// containers are created as arrays or objects to match the next step
// before descending, so numeric steps under an object stay object keys.
func setPath(doc string, segs []pathSegment, value any) (string, error) {
	if len(segs) == 0 {
		return doc, nil
	}
	var err error
	prefix := ""
	for i, seg := range segs {
		last := i == len(segs)-1
		step := escapeKey(seg.key)
		if seg.list {
			if seg.append {
				step = "-1"
				if !last {
					// appending an intermediate container: the element
					// created now is addressed by its index afterwards.
					n := gjson.Get(doc, join(prefix, "#")).Int()
					if !gjson.Get(doc, prefix).IsArray() {
						n = 0
					}
					step = strconv.FormatInt(n, 10)
				}
			} else {
				step = seg.key
			}
		}

		path := join(prefix, step)
		if last {
			return sjson.Set(doc, path, value)
		}

		next := segs[i+1]
		current := gjson.Get(doc, path)
		if next.list && !current.IsArray() {
			doc, err = sjson.SetRaw(doc, path, "[]")
		} else if !next.list && !current.IsObject() {
			doc, err = sjson.SetRaw(doc, path, "{}")
		}
		if err != nil {
			return "", err
		}
		prefix = path
	}
	return doc, nil
}

func join(prefix, step string) string {
	if prefix == "" {
		return step
	}
	return prefix + "." + step
}

// escapeKey escapes characters with a meaning in gjson/sjson paths.
func escapeKey(k string) string {
	var sb strings.Builder
	for _, r := range k {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
