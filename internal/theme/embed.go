package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedThemes contains all bundled theme files.
//
//go:embed themes/*.yaml
var EmbeddedThemes embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// BundledThemes lists all embedded theme names.
var BundledThemes = []string{"default", "dark", "flat"}

// GetEmbeddedTheme retrieves a bundled theme by name.
// The extends chain is not resolved here; use Loader.LoadTheme for that.
func GetEmbeddedTheme(name string) (*Theme, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + name + ".yaml")
	if err != nil {
		return nil, false
	}
	t, err := Parse(data)
	if err != nil {
		return nil, false
	}
	if t.Name == "" {
		t.Name = name
	}
	t.IsDefault = name == DefaultThemeName
	return t, true
}

// ListEmbeddedThemes returns names of all embedded themes.
func ListEmbeddedThemes() []string {
	var themes []string

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return BundledThemes
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".yaml" {
			themes = append(themes, strings.TrimSuffix(name, ext))
		}
	}

	return themes
}

// IsEmbeddedTheme checks if a theme name is bundled.
func IsEmbeddedTheme(name string) bool {
	_, found := GetEmbeddedTheme(name)
	return found
}
