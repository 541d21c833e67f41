// Package content loads the static JSON files that make up the site: profile,
// resume, skills, projects, social links and blog posts. Every file is checked
// against an embedded JSON schema before it is decoded.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

// Site is everything the templates render.
type Site struct {
	Profile  Profile   `json:"config"`
	Resume   Resume    `json:"resume"`
	Skills   Skills    `json:"skills"`
	Projects []Project `json:"projects"`
	Links    Links     `json:"links"`
	Blog     Blog      `json:"blog"`
}

// SchemaError lists every schema violation found in one data file.
type SchemaError struct {
	File     string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: schema validation failed: %s", e.File, strings.Join(e.Problems, "; "))
}

// Load reads and validates every data file in dir.
func Load(dir string) (*Site, error) {
	site := &Site{}
	var projects struct {
		Projects []Project `json:"projects"`
	}

	files := []struct {
		name string
		dst  any
	}{
		{"config", &site.Profile},
		{"resume", &site.Resume},
		{"skills", &site.Skills},
		{"projects", &projects},
		{"links", &site.Links},
		{"blog", &site.Blog},
	}
	for _, f := range files {
		if err := loadFile(dir, f.name, f.dst); err != nil {
			return nil, err
		}
	}
	site.Projects = projects.Projects
	return site, nil
}

func loadFile(dir, name string, dst any) error {
	file := name + ".json"
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	schema, err := schemaFS.ReadFile("schema/" + name + ".schema.json")
	if err != nil {
		return fmt.Errorf("schema for %s: %w", file, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		// not even parseable as JSON
		return fmt.Errorf("validate %s: %w", file, err)
	}
	if !result.Valid() {
		se := &SchemaError{File: file}
		for _, re := range result.Errors() {
			se.Problems = append(se.Problems, re.String())
		}
		return se
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}
	return nil
}

// FirstName is used in the hero greeting.
func (s *Site) FirstName() string {
	if f := strings.Fields(s.Profile.Name); len(f) > 0 {
		return f[0]
	}
	return s.Profile.Name
}

// MainProjects returns live and in-development projects in file order.
func (s *Site) MainProjects() []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Status == StatusLive || p.Status == StatusDevelopment {
			out = append(out, p)
		}
	}
	return out
}

// ConceptProjects returns early-stage ideas.
func (s *Site) ConceptProjects() []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Status == StatusConcept {
			out = append(out, p)
		}
	}
	return out
}

// Post looks up a blog post by slug.
func (s *Site) Post(slug string) (Post, bool) {
	for _, p := range s.Blog.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}
