package classifier

import (
	"context"
	"encoding/json"
	"log"

	"repo-insight/internal/github"
)

// ProjectType is the detected framework family of a repository.
type ProjectType string

const (
	TypeLaravel     ProjectType = "Laravel"
	TypeReactNative ProjectType = "React Native"
	TypeReact       ProjectType = "React"
	TypeVue         ProjectType = "Vue"
	TypeAngular     ProjectType = "Angular"
	TypeUnknown     ProjectType = "Unknown"
)

// RepoReader is the slice of the GitHub client the classifier needs.
type RepoReader interface {
	ListContents(ctx context.Context, token string, repo github.Repo, path string) ([]github.ContentEntry, error)
	GetFileContent(ctx context.Context, token string, repo github.Repo, path string) ([]byte, error)
}

// Classifier detects a repository's project type from its root listing and
// manifest files.
type Classifier struct {
	reader RepoReader
}

func New(reader RepoReader) *Classifier {
	return &Classifier{reader: reader}
}

// Classify inspects the repository root and returns the first matching
// project type. The check order is fixed: the Laravel markers win over any
// JS manifest, and the Angular config file is only consulted when the JS
// manifest names no known framework. A failed root listing yields
// TypeUnknown, never an error.
func (c *Classifier) Classify(ctx context.Context, token string, repo github.Repo) ProjectType {
	entries, err := c.reader.ListContents(ctx, token, repo, "")
	if err != nil {
		log.Printf("classifier: root listing failed for %s: %v", repo.FullName(), err)
		return TypeUnknown
	}

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name] = true
	}

	if names["artisan"] && names["composer.json"] {
		return TypeLaravel
	}

	if names["package.json"] {
		deps := c.readDependencies(ctx, token, repo, "package.json")
		switch {
		case deps["react-native"] != "":
			return TypeReactNative
		case deps["react"] != "":
			return TypeReact
		case deps["vue"] != "":
			return TypeVue
		}
	}

	if names["angular.json"] {
		return TypeAngular
	}

	return TypeUnknown
}

// ImportantPaths returns the conventional source directories a deep analysis
// should walk for the given project type. TypeUnknown maps to the repository
// root only.
func ImportantPaths(t ProjectType) []string {
	switch t {
	case TypeLaravel:
		return []string{"app", "config", "routes", "resources/views", "database/migrations"}
	case TypeReactNative:
		return []string{"src", "components", "screens", "navigation"}
	case TypeReact:
		return []string{"src", "src/components", "public"}
	case TypeVue:
		return []string{"src", "src/components", "src/views"}
	case TypeAngular:
		return []string{"src", "src/app"}
	default:
		return []string{""}
	}
}

// FrameworkDetails describes the detected framework and its manifest.
type FrameworkDetails struct {
	Framework         ProjectType       `json:"framework"`
	Version           string            `json:"version"`
	MajorDependencies map[string]string `json:"major_dependencies"`
}

// Details reads the manifest matching the detected type and extracts the
// framework version plus the full dependency map. Every failure degrades to
// an "Unknown" version with an empty dependency map.
func (c *Classifier) Details(ctx context.Context, token string, repo github.Repo, t ProjectType) FrameworkDetails {
	details := FrameworkDetails{
		Framework:         t,
		Version:           "Unknown",
		MajorDependencies: map[string]string{},
	}

	manifest := "package.json"
	versionKey := ""
	switch t {
	case TypeLaravel:
		manifest = "composer.json"
		versionKey = "laravel/framework"
	case TypeReactNative:
		versionKey = "react-native"
	case TypeReact:
		versionKey = "react"
	case TypeVue:
		versionKey = "vue"
	case TypeAngular:
		versionKey = "@angular/core"
	}

	deps := c.readDependencies(ctx, token, repo, manifest)
	if len(deps) == 0 {
		return details
	}

	details.MajorDependencies = deps
	if versionKey != "" && deps[versionKey] != "" {
		details.Version = deps[versionKey]
	}
	return details
}

// readDependencies fetches and parses a manifest's dependency map. Both
// composer.json ("require") and package.json ("dependencies") are handled;
// dev dependencies are merged in after the runtime ones.
func (c *Classifier) readDependencies(ctx context.Context, token string, repo github.Repo, manifest string) map[string]string {
	content, err := c.reader.GetFileContent(ctx, token, repo, manifest)
	if err != nil || content == nil {
		return nil
	}

	var parsed struct {
		Require         map[string]string `json:"require"`
		RequireDev      map[string]string `json:"require-dev"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(content, &parsed); err != nil {
		log.Printf("classifier: unparseable manifest %s in %s: %v", manifest, repo.FullName(), err)
		return nil
	}

	deps := make(map[string]string)
	for k, v := range parsed.Require {
		deps[k] = v
	}
	for k, v := range parsed.Dependencies {
		deps[k] = v
	}
	for k, v := range parsed.RequireDev {
		if _, ok := deps[k]; !ok {
			deps[k] = v
		}
	}
	for k, v := range parsed.DevDependencies {
		if _, ok := deps[k]; !ok {
			deps[k] = v
		}
	}
	return deps
}
