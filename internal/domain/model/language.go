package model

import "strings"

// Canonical language slugs used across submissions and the grading adapters.
const (
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangRuby       = "ruby"
	LangGo         = "go"
	LangCpp        = "cpp"
	LangJava       = "java"
)

var languageAliases = map[string]string{
	"py":      LangPython,
	"python3": LangPython,
	"js":      LangJavaScript,
	"node":    LangJavaScript,
	"nodejs":  LangJavaScript,
	"rb":      LangRuby,
	"golang":  LangGo,
	"c++":     LangCpp,
	"g++":     LangCpp,
}

// NormalizeLanguage collapses common aliases onto the canonical slug. Unknown
// names pass through lowercased; language is a free-form identifier on the
// submission record.
func NormalizeLanguage(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := languageAliases[n]; ok {
		return canonical
	}
	return n
}
