package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// DefaultPaths are file globs whose diff bodies are always withheld.
var DefaultPaths = []string{"**/.env", "**/.env.*", "**/*secrets*", "**/*.pem", "**/id_rsa*"}

var secretPatterns = []*regexp.Regexp{
	// key/secret assignments
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+([A-Z]+\s+)?PRIVATE KEY-----`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`gsk_[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces every detected secret in text with [REDACTED].
func Secrets(text string) string {
	for _, pat := range secretPatterns {
		text = pat.ReplaceAllLiteralString(text, placeholder)
	}
	return text
}

// MatchPath reports whether path matches one of the globs. A leading
// "**/" matches in any directory.
func MatchPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if rest, found := strings.CutPrefix(pattern, "**/"); found {
			if ok, err := filepath.Match(rest, filepath.Base(path)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Patch redacts a unified diff. Sections for files matching paths keep
// their "diff --git" header and lose everything else. All remaining text
// goes through Secrets.
func Patch(patch string, paths []string) string {
	if patch == "" {
		return patch
	}
	var out strings.Builder
	for _, section := range splitSections(patch) {
		header, _, _ := strings.Cut(section, "\n")
		if file := sectionPath(header); file != "" && MatchPath(file, paths) {
			out.WriteString(header)
			out.WriteString("\n" + placeholder + " (file content withheld)\n")
			continue
		}
		out.WriteString(Secrets(section))
	}
	return out.String()
}

// splitSections cuts patch at each "diff --git" line. Text before the
// first header (a commit preamble, say) is its own section.
func splitSections(patch string) []string {
	var sections []string
	start := 0
	for i := 0; i < len(patch); {
		if strings.HasPrefix(patch[i:], "diff --git ") && i > start {
			sections = append(sections, patch[start:i])
			start = i
		}
		next := strings.IndexByte(patch[i:], '\n')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return append(sections, patch[start:])
}

// sectionPath extracts the post-image path from a "diff --git a/x b/x"
// header, or "" if header is not one.
func sectionPath(header string) string {
	rest, ok := strings.CutPrefix(header, "diff --git ")
	if !ok {
		return ""
	}
	idx := strings.LastIndex(rest, " b/")
	if idx < 0 {
		return ""
	}
	return rest[idx+len(" b/"):]
}
