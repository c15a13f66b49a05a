package config

import (
	"github.com/conneroisu/slate/internal/slug"
	"github.com/conneroisu/slate/internal/tree"
)

// resolveTaxonomies normalizes every declared taxonomy. Taxonomy
// defaulting is order-free: no taxonomy depends on another, and nothing
// here can halt resolution — a key/slug mismatch is left for the
// validator to flag.
func resolveTaxonomies(raw *tree.Tree) *tree.Tree {
	out := tree.New()
	for _, key := range raw.Keys() {
		v, _ := raw.Value(key)
		tax, ok := v.(*tree.Tree)
		if !ok {
			tax = tree.New()
		} else {
			tax = tax.Copy()
		}
		out.SetKey(key, resolveTaxonomy(key, tax))
	}
	return out
}

func resolveTaxonomy(key string, tax *tree.Tree) *tree.Tree {
	if tax.GetString("slug", "") == "" {
		if name := tax.GetString("name", ""); name != "" {
			tax.SetKey("slug", slug.Make(name))
		} else {
			tax.SetKey("slug", slug.Make(key))
		}
	}
	if tax.GetString("name", "") == "" {
		tax.SetKey("name", slug.Title(tax.GetString("slug", "")))
	}
	if tax.GetString("singular_name", "") == "" {
		if singularSlug := tax.GetString("singular_slug", ""); singularSlug != "" {
			tax.SetKey("singular_name", slug.Title(singularSlug))
		} else {
			tax.SetKey("singular_name", slug.Title(tax.GetString("slug", "")))
		}
	}
	if tax.GetString("singular_slug", "") == "" {
		tax.SetKey("singular_slug", slug.Make(tax.GetString("singular_name", "")))
	}

	if !tax.Has("has_sortorder") {
		tax.SetKey("has_sortorder", false)
	}

	// Positional options get keys derived from their values, mirroring
	// the select-field values coercion.
	if options, ok := tax.Value("options"); ok && tree.KindOf(options) == tree.KindSequence {
		m := tree.New()
		for _, item := range options.([]any) {
			m.SetKey(slug.Make(scalarString(item)), item)
		}
		tax.SetKey("options", m)
	}

	// Tag clouds only make sense for tag-like taxonomies, and only as a
	// default; an explicit setting always wins.
	if !tax.Has("tagcloud") {
		tax.SetKey("tagcloud", tax.GetString("behaves_like", "") == "tags")
	}

	return tax
}
