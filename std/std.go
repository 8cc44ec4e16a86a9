// Package std embeds the Jsonnet-expressible half of the standard
// library so pkg/jsonnet can compose it with the native built-in table
// without caring where the source file physically lives.
package std

import _ "embed"

//go:embed std.jsonnet
var Source string
