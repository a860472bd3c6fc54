package constant

import _ "embed"

// AsciiArtLogo is the banner rendered above the root command help.
//
//go:embed ascii.txt
var AsciiArtLogo string
