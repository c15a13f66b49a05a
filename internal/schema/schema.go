// Package schema holds the registered field-type set, reserved system
// field names, and typed views over resolved content-type and taxonomy
// trees. The resolver works on ordered trees so the cache can round-trip
// them exactly; collaborators that know the shape in advance use the typed
// views here instead of stringly-typed path lookups.
package schema

import "github.com/conneroisu/slate/internal/tree"

// FieldTypes is the registered field-type set. A field whose type is not
// listed here is flagged by the validator.
var FieldTypes = map[string]bool{
	"text":           true,
	"textarea":       true,
	"html":           true,
	"markdown":       true,
	"geolocation":    true,
	"video":          true,
	"image":          true,
	"imagelist":      true,
	"file":           true,
	"filelist":       true,
	"float":          true,
	"integer":        true,
	"checkbox":       true,
	"select":         true,
	"slug":           true,
	"date":           true,
	"datetime":       true,
	"templateselect": true,
	"hidden":         true,
}

// ReservedFieldNames are system column names a declared field must not
// shadow. The single exemption is a field named "slug" of type "slug",
// which is how a content type customizes the built-in slug field.
var ReservedFieldNames = map[string]bool{
	"id":            true,
	"slug":          true,
	"datecreated":   true,
	"datechanged":   true,
	"datepublish":   true,
	"datedepublish": true,
	"ownerid":       true,
	"username":      true,
	"status":        true,
	"link":          true,
}

// ImageExtensions is the default extension allow-list for image and
// imagelist fields, intersected with the site-wide accepted file types
// when a field declares no extensions of its own.
var ImageExtensions = []string{"gif", "jpg", "jpeg", "png", "svg", "webp"}

// ContentType is a typed view over a resolved content-type tree.
type ContentType struct {
	Key             string
	Name            string
	SingularName    string
	Slug            string
	SingularSlug    string
	Fields          []Field
	Groups          []string
	Taxonomy        []string
	ShowOnDashboard bool
	ShowInMenu      bool
	DefaultStatus   string
}

// Field is a typed view over a resolved field tree.
type Field struct {
	Name       string
	Type       string
	Label      string
	Class      string
	Variant    string
	Default    string
	Pattern    string
	Group      string
	Extensions []string
	Uses       []string
}

// Taxonomy is a typed view over a resolved taxonomy tree.
type Taxonomy struct {
	Key          string
	Slug         string
	SingularSlug string
	Name         string
	SingularName string
	BehavesLike  string
	HasSortOrder bool
	TagCloud     bool
}

// ContentTypeFromTree builds the typed view for one resolved content type.
func ContentTypeFromTree(key string, t *tree.Tree) ContentType {
	ct := ContentType{
		Key:             key,
		Name:            t.GetString("name", ""),
		SingularName:    t.GetString("singular_name", ""),
		Slug:            t.GetString("slug", ""),
		SingularSlug:    t.GetString("singular_slug", ""),
		Groups:          stringsAt(t, "groups"),
		Taxonomy:        stringsAt(t, "taxonomy"),
		ShowOnDashboard: t.GetBool("show_on_dashboard", true),
		ShowInMenu:      t.GetBool("show_in_menu", true),
		DefaultStatus:   t.GetString("default_status", "draft"),
	}
	if fields := t.Subtree("fields"); fields != nil {
		for _, name := range fields.Keys() {
			if ft := fields.Subtree(name); ft != nil {
				ct.Fields = append(ct.Fields, FieldFromTree(name, ft))
			}
		}
	}
	return ct
}

// FieldFromTree builds the typed view for one resolved field.
func FieldFromTree(name string, t *tree.Tree) Field {
	return Field{
		Name:       name,
		Type:       t.GetString("type", ""),
		Label:      t.GetString("label", ""),
		Class:      t.GetString("class", ""),
		Variant:    t.GetString("variant", ""),
		Default:    t.GetString("default", ""),
		Pattern:    t.GetString("pattern", ""),
		Group:      t.GetString("group", ""),
		Extensions: stringsAt(t, "extensions"),
		Uses:       stringsAt(t, "uses"),
	}
}

// TaxonomyFromTree builds the typed view for one resolved taxonomy.
func TaxonomyFromTree(key string, t *tree.Tree) Taxonomy {
	return Taxonomy{
		Key:          key,
		Slug:         t.GetString("slug", ""),
		SingularSlug: t.GetString("singular_slug", ""),
		Name:         t.GetString("name", ""),
		SingularName: t.GetString("singular_name", ""),
		BehavesLike:  t.GetString("behaves_like", ""),
		HasSortOrder: t.GetBool("has_sortorder", false),
		TagCloud:     t.GetBool("tagcloud", false),
	}
}

func stringsAt(t *tree.Tree, key string) []string {
	v, ok := t.Value(key)
	if !ok {
		return nil
	}
	return tree.StringSlice(v)
}
