// Package data bundles the default price book shipped with the tool.
package data

import _ "embed"

//go:embed catalog.json
var Catalog []byte
