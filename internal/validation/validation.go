// Package validation runs the read-only cross-reference checks over a
// fully resolved configuration tree. It only reports: diagnostics never
// abort the process once resolution has completed, and validation never
// writes back into the tree.
package validation

import (
	"fmt"

	"github.com/conneroisu/slate/internal/schema"
	"github.com/conneroisu/slate/internal/tree"
)

// Severity ranks a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes.
const (
	CodeReservedFieldName   = "reserved-field-name"
	CodeDanglingUses        = "dangling-uses"
	CodeUnknownFieldType    = "unknown-field-type"
	CodeTaxonomyKeyMismatch = "taxonomy-key-mismatch"
	CodeDuplicateSlug       = "duplicate-slug"
)

// Diagnostic is one actionable finding, carrying the identifiers an
// operator needs to locate the offending declaration.
type Diagnostic struct {
	Severity    Severity `json:"severity"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	ContentType string   `json:"contenttype,omitempty"`
	Field       string   `json:"field,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Code, d.Message)
}

// HasErrors reports whether any diagnostic is error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run validates resolved content types and taxonomies against each other.
// All diagnostics are accumulated, in declaration order, rather than
// stopping at the first finding per category.
func Run(contentTypes, taxonomies *tree.Tree) []Diagnostic {
	var diags []Diagnostic

	diags = append(diags, checkFields(contentTypes)...)
	diags = append(diags, checkTaxonomyKeys(taxonomies)...)
	diags = append(diags, checkSlugCollisions(contentTypes, taxonomies)...)

	return diags
}

// checkFields covers the per-field checks: reserved-name collisions,
// unknown field types, and dangling uses references.
func checkFields(contentTypes *tree.Tree) []Diagnostic {
	var diags []Diagnostic
	for _, ctKey := range contentTypes.Keys() {
		ct := contentTypes.Subtree(ctKey)
		if ct == nil {
			continue
		}
		fields := ct.Subtree("fields")
		if fields == nil {
			continue
		}

		for _, name := range fields.Keys() {
			field := fields.Subtree(name)
			if field == nil {
				continue
			}
			ftype := field.GetString("type", "")

			// The built-in slug field may be customized under its own
			// name; every other reserved name is off limits.
			if schema.ReservedFieldNames[name] && !(name == "slug" && ftype == "slug") {
				diags = append(diags, Diagnostic{
					Severity:    SeverityError,
					Code:        CodeReservedFieldName,
					Message:     fmt.Sprintf("content type %q: field %q is a reserved name", ctKey, name),
					ContentType: ctKey,
					Field:       name,
				})
			}

			if !schema.FieldTypes[ftype] {
				diags = append(diags, Diagnostic{
					Severity:    SeverityError,
					Code:        CodeUnknownFieldType,
					Message:     fmt.Sprintf("content type %q: field %q has unknown type %q", ctKey, name, ftype),
					ContentType: ctKey,
					Field:       name,
				})
			}

			for _, used := range usesOf(field) {
				if !fields.Has(used) && !schema.ReservedFieldNames[used] {
					diags = append(diags, Diagnostic{
						Severity:    SeverityError,
						Code:        CodeDanglingUses,
						Message:     fmt.Sprintf("content type %q: field %q uses unknown field %q", ctKey, name, used),
						ContentType: ctKey,
						Field:       name,
					})
				}
			}
		}
	}
	return diags
}

func usesOf(field *tree.Tree) []string {
	v, ok := field.Value("uses")
	if !ok {
		return nil
	}
	return tree.StringSlice(v)
}

// checkTaxonomyKeys verifies each taxonomy's declared key equals its
// resolved slug. A mismatch is a warning, not a hard failure.
func checkTaxonomyKeys(taxonomies *tree.Tree) []Diagnostic {
	var diags []Diagnostic
	for _, key := range taxonomies.Keys() {
		tax := taxonomies.Subtree(key)
		if tax == nil {
			continue
		}
		if resolved := tax.GetString("slug", ""); resolved != key {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeTaxonomyKeyMismatch,
				Message:  fmt.Sprintf("taxonomy %q: declared key does not match resolved slug %q", key, resolved),
			})
		}
	}
	return diags
}

// checkSlugCollisions pools slug and singular_slug values across every
// content type and taxonomy into a single namespace and flags exact
// duplicates. A singular_slug equal to its own slug is not double-counted.
func checkSlugCollisions(contentTypes, taxonomies *tree.Tree) []Diagnostic {
	var diags []Diagnostic
	owners := make(map[string]string)

	claim := func(value, owner string) {
		if value == "" {
			return
		}
		if prev, taken := owners[value]; taken {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeDuplicateSlug,
				Message:  fmt.Sprintf("duplicate slug %q shared by %s and %s", value, prev, owner),
			})
			return
		}
		owners[value] = owner
	}

	for _, key := range contentTypes.Keys() {
		ct := contentTypes.Subtree(key)
		if ct == nil {
			continue
		}
		s := ct.GetString("slug", "")
		singular := ct.GetString("singular_slug", "")
		claim(s, fmt.Sprintf("content type %q", key))
		if singular != s {
			claim(singular, fmt.Sprintf("content type %q", key))
		}
	}
	for _, key := range taxonomies.Keys() {
		tax := taxonomies.Subtree(key)
		if tax == nil {
			continue
		}
		s := tax.GetString("slug", "")
		singular := tax.GetString("singular_slug", "")
		claim(s, fmt.Sprintf("taxonomy %q", key))
		if singular != s {
			claim(singular, fmt.Sprintf("taxonomy %q", key))
		}
	}
	return diags
}
