package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDistinct(t *testing.T) {
	tests := []struct {
		name     string
		base     *Tree
		override *Tree
		check    func(t *testing.T, out *Tree)
	}{
		{
			name: "scalar replaced outright",
			base: pairs("sitename", "default", "locale", "en_GB"),
			override: pairs("sitename", "My Site"),
			check: func(t *testing.T, out *Tree) {
				assert.Equal(t, "My Site", out.GetString("sitename", ""))
				assert.Equal(t, "en_GB", out.GetString("locale", ""))
			},
		},
		{
			name: "mappings recurse",
			base: pairs("database", pairs("driver", "sqlite", "host", "localhost")),
			override: pairs("database", pairs("driver", "mysql")),
			check: func(t *testing.T, out *Tree) {
				assert.Equal(t, "mysql", out.GetString("database/driver", ""))
				assert.Equal(t, "localhost", out.GetString("database/host", ""))
			},
		},
		{
			name: "sequence replaced not unioned",
			base: pairs("accept_file_types", []any{"png", "jpg", "gif"}),
			override: pairs("accept_file_types", []any{"pdf"}),
			check: func(t *testing.T, out *Tree) {
				v, _ := out.Value("accept_file_types")
				assert.Equal(t, []any{"pdf"}, v)
			},
		},
		{
			name: "type mismatch replaced",
			base: pairs("caching", pairs("config", true)),
			override: pairs("caching", false),
			check: func(t *testing.T, out *Tree) {
				v, _ := out.Value("caching")
				assert.Equal(t, false, v)
			},
		},
		{
			name: "base order kept and new keys appended",
			base: pairs("a", 1, "b", 2, "c", 3),
			override: pairs("c", 30, "z", 26, "a", 10),
			check: func(t *testing.T, out *Tree) {
				assert.Equal(t, []string{"a", "b", "c", "z"}, out.Keys())
			},
		},
		{
			name: "nil override value replaces",
			base: pairs("theme", "default"),
			override: pairs("theme", nil),
			check: func(t *testing.T, out *Tree) {
				v, ok := out.Value("theme")
				require.True(t, ok)
				assert.Nil(t, v)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MergeDistinct(tt.base, tt.override))
		})
	}
}

func TestMergeDistinctDoesNotModifyInputs(t *testing.T) {
	base := pairs("database", pairs("driver", "sqlite"))
	override := pairs("database", pairs("driver", "mysql"))

	out := MergeDistinct(base, override)
	out.Subtree("database").SetKey("driver", "postgres")

	assert.Equal(t, "sqlite", base.GetString("database/driver", ""))
	assert.Equal(t, "mysql", override.GetString("database/driver", ""))
}

func TestMergeDistinctIdempotent(t *testing.T) {
	tr := pairs(
		"sitename", "A sample site",
		"database", pairs("driver", "sqlite"),
		"types", []any{"a", "b"},
	)
	assert.True(t, Equal(tr, MergeDistinct(tr, tr)))
	assert.True(t, Equal(tr, MergeDistinct(tr, New())))
	assert.True(t, Equal(tr, MergeDistinct(New(), tr)))
}

func TestMergeDistinctNilInputs(t *testing.T) {
	tr := pairs("a", 1)
	assert.True(t, Equal(tr, MergeDistinct(nil, tr)))
	assert.True(t, Equal(tr, MergeDistinct(tr, nil)))
}

// pairs builds a tree from alternating key/value arguments.
func pairs(kv ...any) *Tree {
	t := New()
	for i := 0; i+1 < len(kv); i += 2 {
		t.SetKey(kv[i].(string), kv[i+1])
	}
	return t
}
