package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/slate/internal/errors"
	"github.com/conneroisu/slate/internal/schema"
	"github.com/conneroisu/slate/internal/slug"
	"github.com/conneroisu/slate/internal/tree"
)

// baseFieldClass is prepended to every field's CSS class; a declared class
// is appended after it.
const baseFieldClass = "form-control"

// resolveContentTypes normalizes every declared content type. A content
// type that cannot be identified at all is a halting error, reported for
// the first offender in declaration order; everything softer is left for
// the validator.
func resolveContentTypes(raw, general *tree.Tree) (*tree.Tree, error) {
	accept := acceptSet(general)

	out := tree.New()
	for _, key := range raw.Keys() {
		v, _ := raw.Value(key)
		ct, ok := v.(*tree.Tree)
		if !ok {
			if v == nil {
				ct = tree.New()
			} else {
				return nil, errors.NewSchemaError(
					errors.ErrCodeMissingIdentity,
					fmt.Sprintf("content type %q: declaration is not a mapping", key),
				).WithContentType(key)
			}
		}
		resolved, err := resolveContentType(key, ct.Copy(), general, accept)
		if err != nil {
			return nil, err
		}
		out.SetKey(key, resolved)
	}
	return out, nil
}

func resolveContentType(key string, ct, general *tree.Tree, accept map[string]bool) (*tree.Tree, error) {
	// A bare numeric key means the declaration came from a sequence where
	// a mapping was expected; it cannot contribute a slug.
	if !ct.Has("slug") && !slug.IsNumeric(key) {
		ct.SetKey("slug", slug.Make(key))
	}

	if ct.GetString("name", "") == "" && ct.GetString("slug", "") == "" {
		return nil, errors.ErrMissingIdentity(key, false)
	}
	if ct.GetString("singular_name", "") == "" && ct.GetString("singular_slug", "") == "" {
		return nil, errors.ErrMissingIdentity(key, true)
	}

	if ct.GetString("slug", "") == "" {
		ct.SetKey("slug", slug.Make(ct.GetString("name", "")))
	}
	if ct.GetString("name", "") == "" {
		ct.SetKey("name", slug.Title(ct.GetString("slug", "")))
	}
	if ct.GetString("singular_slug", "") == "" {
		ct.SetKey("singular_slug", slug.Make(ct.GetString("singular_name", "")))
	}
	if ct.GetString("singular_name", "") == "" {
		ct.SetKey("singular_name", slug.Title(ct.GetString("singular_slug", "")))
	}

	if fields := ct.Subtree("fields"); fields != nil {
		resolved, groups := resolveFields(fields, accept, acceptOrder(general))
		ct.SetKey("fields", resolved)
		if len(groups) > 0 {
			ct.SetKey("groups", toSequence(groups))
		}
	}

	// Taxonomy references may be declared as a scalar; coerce.
	if v, ok := ct.Value("taxonomy"); ok && tree.KindOf(v) == tree.KindScalar {
		ct.SetKey("taxonomy", []any{v})
	}

	// Relations are re-keyed by normalized slug; on collision the
	// last-declared value wins.
	if rel := ct.Subtree("relations"); rel != nil {
		rekeyed := tree.New()
		for _, rk := range rel.Keys() {
			v, _ := rel.Value(rk)
			rekeyed.SetKey(slug.Make(rk), v)
		}
		ct.SetKey("relations", rekeyed)
	}

	if !ct.Has("show_on_dashboard") {
		ct.SetKey("show_on_dashboard", true)
	}
	if !ct.Has("show_in_menu") {
		ct.SetKey("show_in_menu", true)
	}
	if !ct.Has("default_status") {
		ct.SetKey("default_status", "draft")
	}
	if !ct.Has("sort") {
		ct.SetKey("sort", false)
	}

	return ct, nil
}

// resolveFields applies field defaulting in declaration order, threading
// the sticky "current group" accumulator through the fold: a field that
// declares a group makes it current; a field without one inherits it.
func resolveFields(fields *tree.Tree, accept map[string]bool, acceptList []string) (*tree.Tree, []string) {
	out := tree.New()
	var groups []string
	seenGroup := make(map[string]bool)
	currentGroup := "none"

	for _, rawKey := range fields.Keys() {
		fieldKey := slug.FieldKey(rawKey)
		v, _ := fields.Value(rawKey)
		field, ok := v.(*tree.Tree)
		if !ok {
			field = tree.New()
		}
		fieldType := field.GetString("type", "")

		switch fieldType {
		case "file", "filelist", "image", "imagelist":
			if ext, ok := field.Value("extensions"); ok {
				if tree.KindOf(ext) == tree.KindScalar {
					field.SetKey("extensions", []any{ext})
				}
			} else {
				field.SetKey("extensions", toSequence(defaultExtensions(fieldType, accept, acceptList)))
			}
		case "select":
			// A plain sequence of values becomes a value→value mapping so
			// stored values equal the configured labels; reordering the
			// options can then never silently re-map stored records.
			if values, ok := field.Value("values"); ok && tree.KindOf(values) == tree.KindSequence {
				m := tree.New()
				for _, item := range values.([]any) {
					m.SetKey(scalarString(item), item)
				}
				field.SetKey("values", m)
			}
		case "slug":
			if uses, ok := field.Value("uses"); ok && tree.KindOf(uses) == tree.KindScalar {
				field.SetKey("uses", []any{uses})
			}
		}

		if declared := field.GetString("group", ""); declared != "" {
			currentGroup = declared
			if !seenGroup[declared] {
				seenGroup[declared] = true
				groups = append(groups, declared)
			}
		} else {
			field.SetKey("group", currentGroup)
		}

		if !field.Has("label") {
			field.SetKey("label", "")
		}
		field.SetKey("class", strings.TrimSpace(baseFieldClass+" "+field.GetString("class", "")))
		if !field.Has("variant") {
			field.SetKey("variant", "")
		}
		if !field.Has("default") {
			field.SetKey("default", "")
		}
		if !field.Has("pattern") {
			field.SetKey("pattern", "")
		}

		out.SetKey(fieldKey, field)
	}
	return out, groups
}

// defaultExtensions intersects the type-specific allow-list with the
// site-wide accepted file types, preserving allow-list order. File fields
// have no narrower list of their own, so they get the accepted types
// wholesale.
func defaultExtensions(fieldType string, accept map[string]bool, acceptList []string) []string {
	switch fieldType {
	case "image", "imagelist":
		var out []string
		for _, ext := range schema.ImageExtensions {
			if accept[ext] {
				out = append(out, ext)
			}
		}
		return out
	default:
		return acceptList
	}
}

// acceptSet returns the site-wide accepted file types, lowercased, as a
// membership set.
func acceptSet(general *tree.Tree) map[string]bool {
	set := make(map[string]bool)
	for _, ext := range acceptOrder(general) {
		set[ext] = true
	}
	return set
}

// acceptOrder returns the accepted file types in declared order.
func acceptOrder(general *tree.Tree) []string {
	v, _ := general.Value("accept_file_types")
	exts := tree.StringSlice(v)
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.ToLower(ext))
	}
	return out
}

// normalizeAcceptFileTypes lowercases the accepted file types in place and
// coerces a scalar declaration to a sequence.
func normalizeAcceptFileTypes(general *tree.Tree) {
	v, ok := general.Value("accept_file_types")
	if !ok {
		return
	}
	exts := tree.StringSlice(v)
	lowered := make([]string, 0, len(exts))
	for _, ext := range exts {
		lowered = append(lowered, strings.ToLower(ext))
	}
	general.SetKey("accept_file_types", toSequence(lowered))
}

func toSequence(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
