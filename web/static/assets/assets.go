package assets

import "embed"

// FS holds the stylesheets served under /assets/.
//
//go:embed css
var FS embed.FS
