// Package project reads distribution metadata from a Python project
// directory and uses it to complete parsed page records.
package project

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const pyprojectFile = "pyproject.toml"

// Metadata is the distribution description of a project: the fields a
// manual page can fall back on when its record leaves them open.
type Metadata struct {
	Name            string
	Version         string
	Description     string
	LongDescription string
	URL             string
	Authors         []string
}

// pyprojectDoc mirrors the PEP 621 [project] table, limited to the
// fields manual pages use.
type pyprojectDoc struct {
	Project struct {
		Name        string            `toml:"name"`
		Version     string            `toml:"version"`
		Description string            `toml:"description"`
		Readme      any               `toml:"readme"`
		URLs        map[string]string `toml:"urls"`
		Authors     []struct {
			Name  string `toml:"name"`
			Email string `toml:"email"`
		} `toml:"authors"`
	} `toml:"project"`
}

// Load reads distribution metadata from dir's pyproject.toml. Loading is
// best-effort: a missing or unparsable document yields empty metadata,
// never an error, since a specification may carry everything itself.
func Load(dir string) *Metadata {
	meta := &Metadata{}
	data, err := os.ReadFile(filepath.Join(dir, pyprojectFile))
	if err != nil {
		return meta
	}
	var doc pyprojectDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return meta
	}

	meta.Name = doc.Project.Name
	meta.Version = doc.Project.Version
	meta.Description = doc.Project.Description
	meta.LongDescription = readme(dir, doc.Project.Readme)
	meta.URL = homepage(doc.Project.URLs)
	for _, author := range doc.Project.Authors {
		if formatted := formatAuthor(author.Name, author.Email); formatted != "" {
			meta.Authors = append(meta.Authors, formatted)
		}
	}
	return meta
}

// readme resolves the PEP 621 readme field, which is either a path
// string or a table with "file" or "text".
func readme(dir string, field any) string {
	switch field := field.(type) {
	case string:
		return readFile(dir, field)
	case map[string]any:
		if text, ok := field["text"].(string); ok {
			return text
		}
		if file, ok := field["file"].(string); ok {
			return readFile(dir, file)
		}
	}
	return ""
}

func readFile(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

// homepage picks the conventional Homepage entry from [project.urls].
func homepage(urls map[string]string) string {
	for name, url := range urls {
		if strings.EqualFold(name, "homepage") {
			return url
		}
	}
	return ""
}

func formatAuthor(name, email string) string {
	switch {
	case name != "" && email != "":
		return name + " <" + email + ">"
	case name != "":
		return name
	default:
		return email
	}
}
