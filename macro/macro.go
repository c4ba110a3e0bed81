// Package macro decodes a macro table (spec.md §3's name-to-replacement
// mapping, consumed by lexer.Scanner) from YAML, grounded on the
// projectdiscovery/alterx Config pattern of unmarshaling a small
// user-authored rules file with gopkg.in/yaml.v3.
package macro

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/coregx/lexgen/lexer"
)

// File is the on-disk shape of a macro table: a flat mapping of macro
// name to replacement pattern text under a top-level "macros" key, e.g.
//
//	macros:
//	  DIGIT: "[0-9]"
//	  ID: "[a-zA-Z_]{DIGIT}*"
type File struct {
	Macros lexer.MacroTable `yaml:"macros"`
}

// ParseTable decodes data into a lexer.MacroTable. Forward references
// between macros (as in the ID example above) are fine: lexer.Scanner
// resolves them lazily, at expansion time, not here.
func ParseTable(data []byte) (lexer.MacroTable, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("macro: decode: %w", err)
	}
	if f.Macros == nil {
		f.Macros = lexer.MacroTable{}
	}
	return f.Macros, nil
}
