package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/slate/internal/tree"
)

func TestReservedFieldNames(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		fieldType string
		flagged   bool
	}{
		{"id is reserved", "id", "integer", true},
		{"status is reserved", "status", "text", true},
		{"slug of type slug is exempt", "slug", "slug", false},
		{"slug of other type is reserved", "slug", "text", true},
		{"ordinary field is fine", "title", "text", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cts := contentTypesWith("pages", fieldsOf(tt.fieldName, tt.fieldType))
			diags := Run(cts, tree.New())

			found := findCode(diags, CodeReservedFieldName)
			if tt.flagged {
				require.Len(t, found, 1)
				assert.Equal(t, SeverityError, found[0].Severity)
				assert.Equal(t, "pages", found[0].ContentType)
				assert.Equal(t, tt.fieldName, found[0].Field)
			} else {
				assert.Empty(t, found)
			}
		})
	}
}

func TestUnknownFieldType(t *testing.T) {
	cts := contentTypesWith("pages", fieldsOf("body", "wysiwyg"))
	diags := Run(cts, tree.New())

	found := findCode(diags, CodeUnknownFieldType)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, `"wysiwyg"`)
}

func TestDanglingUses(t *testing.T) {
	fields := tree.New()
	title := tree.New()
	title.SetKey("type", "text")
	fields.SetKey("title", title)

	slugField := tree.New()
	slugField.SetKey("type", "slug")
	slugField.SetKey("uses", []any{"title", "subtitle", "datepublish"})
	fields.SetKey("permalink", slugField)

	cts := contentTypesWith("pages", fields)
	diags := Run(cts, tree.New())

	// "title" exists, "datepublish" is a system column, only "subtitle"
	// dangles.
	found := findCode(diags, CodeDanglingUses)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, `"subtitle"`)
	assert.Equal(t, "permalink", found[0].Field)
}

func TestTaxonomyKeyMismatchIsWarning(t *testing.T) {
	taxonomies := tree.New()
	tax := tree.New()
	tax.SetKey("slug", "categories")
	taxonomies.SetKey("cats", tax)

	diags := Run(tree.New(), taxonomies)

	found := findCode(diags, CodeTaxonomyKeyMismatch)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
	assert.False(t, HasErrors(diags))
}

func TestDuplicateSlugsPooledAcrossKinds(t *testing.T) {
	cts := tree.New()
	pages := tree.New()
	pages.SetKey("slug", "pages")
	pages.SetKey("singular_slug", "page")
	cts.SetKey("pages", pages)

	taxonomies := tree.New()
	tax := tree.New()
	tax.SetKey("slug", "tags")
	tax.SetKey("singular_slug", "page")
	taxonomies.SetKey("tags", tax)

	diags := Run(cts, taxonomies)

	found := findCode(diags, CodeDuplicateSlug)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, `"page"`)
	assert.True(t, HasErrors(diags))
}

func TestSingularEqualToSlugNotDoubleCounted(t *testing.T) {
	cts := tree.New()
	news := tree.New()
	news.SetKey("slug", "news")
	news.SetKey("singular_slug", "news")
	cts.SetKey("news", news)

	diags := Run(cts, tree.New())
	assert.Empty(t, findCode(diags, CodeDuplicateSlug))
}

func TestRunAccumulatesInDeclarationOrder(t *testing.T) {
	cts := tree.New()
	cts.SetKey("first", fieldsParent(fieldsOf("id", "integer")))
	cts.SetKey("second", fieldsParent(fieldsOf("status", "bogus")))

	diags := Run(cts, tree.New())

	found := findCode(diags, CodeReservedFieldName)
	require.Len(t, found, 2)
	assert.Equal(t, "first", found[0].ContentType)
	assert.Equal(t, "second", found[1].ContentType)
	assert.Len(t, findCode(diags, CodeUnknownFieldType), 1)
}

func TestRunHandlesNilSections(t *testing.T) {
	assert.Empty(t, Run(nil, nil))
}

func fieldsOf(name, fieldType string) *tree.Tree {
	fields := tree.New()
	f := tree.New()
	f.SetKey("type", fieldType)
	fields.SetKey(name, f)
	return fields
}

func fieldsParent(fields *tree.Tree) *tree.Tree {
	ct := tree.New()
	ct.SetKey("fields", fields)
	return ct
}

func contentTypesWith(key string, fields *tree.Tree) *tree.Tree {
	cts := tree.New()
	cts.SetKey(key, fieldsParent(fields))
	return cts
}

func findCode(diags []Diagnostic, code string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
