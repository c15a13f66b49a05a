package config

import "github.com/conneroisu/slate/internal/tree"

// Defaults returns the static baseline tree of every recognized general
// setting. Declared settings overlay these via tree.MergeDistinct, so the
// table also documents which options the engine understands.
func Defaults() *tree.Tree {
	return mapping(
		"sitename", "A sample site",
		"payoff", "The amazing payoff goes here",
		"locale", "en_GB",
		"theme", "default",

		"homepage", "page/1",
		"homepage_template", "index.twig",
		"record_template", "record.twig",
		"listing_template", "listing.twig",
		"listing_records", int64(6),
		"listing_sort", "datepublish DESC",
		"search_results_template", "listing.twig",
		"search_results_records", int64(10),
		"notfound", "page/404-not-found",
		"maintenance_mode", false,
		"maintenance_template", "maintenance_default.twig",

		"database", mapping(
			"driver", "sqlite",
			"databasename", "slate",
			"host", "localhost",
			"slow_query_logging", false,
		),

		"accept_file_types", seq(
			"twig", "html", "js", "css", "scss",
			"gif", "jpg", "jpeg", "png", "ico", "svg", "webp",
			"zip", "tgz", "txt", "md",
			"doc", "docx", "pdf", "epub", "xls", "xlsx", "ppt", "pptx", "csv",
			"mp3", "ogg", "wav", "m4a",
			"mp4", "m4v", "ogv", "wmv", "avi", "webm",
		),

		"branding", mapping(
			"name", "Slate",
			"path", "/admin",
		),

		"caching", mapping(
			"config", true,
			"templates", true,
			"request", false,
			"duration", int64(10),
		),

		"changelog", mapping(
			"enabled", false,
		),

		"cookies_use_remoteaddr", true,
		"cookies_use_browseragent", false,
		"cookies_use_httphost", true,
		"cookies_lifetime", int64(1209600),
		"enforce_ssl", false,
		"hash_strength", int64(10),

		"thumbnails", mapping(
			"default_thumbnail", seq(int64(160), int64(120)),
			"default_image", seq(int64(1000), int64(750)),
			"quality", int64(75),
			"cropping", "crop",
			"notfound_image", "view/img/default_notfound.png",
			"error_image", "view/img/default_error.png",
		),

		"wysiwyg", mapping(
			"images", false,
			"tables", false,
			"fontcolor", false,
			"align", false,
			"subsuper", false,
			"embed", false,
			"ck", mapping(
				"autoParagraph", true,
				"contentsCss", seq(
					"view/css/ckeditor-contents.css",
					"view/css/ckeditor.css",
				),
			),
		),
		"liveeditor", true,

		"performance", mapping(
			"timed_records", mapping(
				"interval", int64(3600),
				"use_cron", false,
			),
		),

		"debug", false,
		"debug_show_loggedoff", false,
		"strict_variables", false,
	)
}

// mapping builds an ordered tree from alternating key/value pairs.
func mapping(pairs ...any) *tree.Tree {
	t := tree.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		t.SetKey(pairs[i].(string), pairs[i+1])
	}
	return t
}

// seq builds a sequence value.
func seq(items ...any) []any {
	return items
}
