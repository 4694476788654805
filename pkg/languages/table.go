// Package languages classifies repository files into languages by extension.
package languages

import (
	"maps"
	"slices"
	"strings"
)

// Table is an immutable mapping from a lower-cased file extension (".go") or
// bare file name ("dockerfile") to a language name. The zero value is empty.
type Table struct {
	entries map[string]string
}

// builtin is the default mapping. It is only ever copied.
var builtin = map[string]string{
	".py": "Python", ".js": "JavaScript", ".ts": "TypeScript", ".tsx": "React/TS",
	".jsx": "React/JS", ".html": "HTML", ".css": "CSS", ".go": "Go", ".rs": "Rust",
	".cpp": "C++", ".c": "C", ".h": "C/C++", ".java": "Java", ".rb": "Ruby",
	".php": "PHP", ".cs": "C#", ".swift": "Swift", ".kt": "Kotlin", ".m": "Obj-C",
	".sql": "SQL", ".sh": "Shell", ".bat": "Batch", ".ps1": "PowerShell",
	".dart": "Dart", ".lua": "Lua", ".scala": "Scala", ".pl": "Perl",
	".r": "R", ".jl": "Julia", ".ex": "Elixir", ".exs": "Elixir",
	".yaml": "YAML", ".yml": "YAML", ".json": "JSON", ".md": "Markdown",
	".dockerfile": "Docker", "dockerfile": "Docker", ".proto": "Protobuf",
}

// NewTable builds a table from entries. Keys are lower-cased.
func NewTable(entries map[string]string) Table {
	t := Table{entries: make(map[string]string, len(entries))}

	for key, lang := range entries {
		if key == "" || lang == "" {
			continue
		}

		t.entries[strings.ToLower(key)] = lang
	}

	return t
}

// DefaultTable returns the built-in extension table.
func DefaultTable() Table {
	return NewTable(builtin)
}

// With returns a new table where extra entries are added or override
// existing ones. The receiver is left untouched.
func (t Table) With(extra map[string]string) Table {
	merged := maps.Clone(t.entries)
	if merged == nil {
		merged = make(map[string]string, len(extra))
	}

	maps.Copy(merged, NewTable(extra).entries)

	return Table{entries: merged}
}

// Lookup returns the language for a lower-cased extension or file name.
func (t Table) Lookup(key string) (string, bool) {
	lang, ok := t.entries[strings.ToLower(key)]

	return lang, ok
}

// Len returns the number of keys.
func (t Table) Len() int {
	return len(t.entries)
}

// Languages returns the distinct language names, sorted.
func (t Table) Languages() []string {
	names := slices.Collect(maps.Values(t.entries))
	slices.Sort(names)

	return slices.Compact(names)
}
