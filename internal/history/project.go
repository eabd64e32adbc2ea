package history

import (
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// marker pairs a file (relative to a candidate project root) with the
// project type name it implies. Checked in order, first match wins,
// grounded on project.rs's detect_project.
var markers = []struct {
	file string
	kind string
}{
	{"Cargo.toml", "Rust"},
	{"package.json", "Node"},
	{"requirements.txt", "Python"},
	{"setup.py", "Python"},
	{"pyproject.toml", "Python"},
	{"Pipfile", "Python"},
	{"go.mod", "Go"},
	{"pom.xml", "Maven"},
	{"build.gradle", "Gradle"},
	{"build.gradle.kts", "Gradle"},
	{"Gemfile", "Ruby"},
	{"composer.json", "PHP"},
	{"Dockerfile", "Docker"},
	{"docker-compose.yml", "Docker"},
	{".git", "Git"},
}

// DetectProjectType returns the best-effort project type for a directory:
// a marker-file check first (cheap, deterministic, spec-mandated), and
// when nothing matches a go-enry-based language guess over the
// directory's immediate entries as a fallback signal for tagging.
func DetectProjectType(dir string) string {
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
			return m.kind
		}
	}
	return detectByLanguage(dir)
}

// detectByLanguage picks the most common enry-classified language among a
// directory's immediate files, used only when no marker file matched.
func detectByLanguage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "Unknown"
	}

	counts := make(map[string]int)
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		langs := enry.GetLanguagesByFilename(ent.Name(), nil, nil)
		for _, lang := range langs {
			counts[lang]++
		}
	}

	best, bestCount := "", 0
	for lang, n := range counts {
		if n > bestCount {
			best, bestCount = lang, n
		}
	}
	if best == "" {
		return "Unknown"
	}
	return best
}
