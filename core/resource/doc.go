// Package resource resolves logical template paths to file contents with
// language fallback.
//
// Logical paths carry a ":lang" placeholder, for example
// "web/html/:lang/orders/index.html". Resolution tries three variants in
// order:
//
//  1. the placeholder replaced with the requested language
//  2. the placeholder replaced with the default language
//  3. the ":lang/" segment removed entirely (language-neutral resource)
//
// Each variant is looked up first under the filesystem root, then in the
// embedded fallback fs.FS. When every variant misses, Resolve returns a
// NotFoundError carrying the ORIGINAL logical path, so error pages can name
// the resource the caller asked for rather than the last fallback tried.
//
//	res := resource.NewResolver(
//		resource.WithRoot("./web"),
//		resource.WithEmbedded(embeddedFS),
//		resource.WithDefaultLanguage("en"),
//	)
//
//	content, err := res.Resolve("web/html/:lang/orders/index.html", "de")
//
// Resolved contents can be memoized with WithCaching; the cache holds final
// text keyed by the physical path that matched.
package resource
