package lexer

// MacroTable maps a macro name to its replacement text (spec.md §3, §6).
// Replacements are re-scanned by the same Scanner and may themselves
// reference other macros; recursion is bounded by Config.MaxMacroDepth
// rather than left to the host's raw call stack, since Go goroutine
// stacks grow but this core still needs a deterministic, testable limit.
type MacroTable map[string]string
