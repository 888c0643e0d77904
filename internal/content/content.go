package content

// SiteContent is the single schema-free document backing the public site.
// Field names are whatever the admin page sends, values are opaque JSON.
type SiteContent map[string]any
