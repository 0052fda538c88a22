package classifier

import (
	"context"
	"errors"
	"testing"

	"repo-insight/internal/github"
)

type fakeReader struct {
	entries []github.ContentEntry
	files   map[string]string
	listErr error
}

func (f *fakeReader) ListContents(ctx context.Context, token string, repo github.Repo, path string) ([]github.ContentEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeReader) GetFileContent(ctx context.Context, token string, repo github.Repo, path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, nil
	}
	return []byte(content), nil
}

func entries(names ...string) []github.ContentEntry {
	out := make([]github.ContentEntry, 0, len(names))
	for _, n := range names {
		out = append(out, github.ContentEntry{Name: n, Path: n, Type: "file"})
	}
	return out
}

var testRepo = github.Repo{Owner: "owner", Name: "repo"}

func TestClassifyLaravel(t *testing.T) {
	c := New(&fakeReader{entries: entries("artisan", "composer.json", "package.json")})

	got := c.Classify(context.Background(), "token", testRepo)
	if got != TypeLaravel {
		t.Errorf("expected Laravel, got %s", got)
	}
}

func TestClassifyLaravelWinsOverReact(t *testing.T) {
	// Laravel apps commonly carry a package.json with react in it; the
	// Laravel markers must still win.
	reader := &fakeReader{
		entries: entries("artisan", "composer.json", "package.json"),
		files: map[string]string{
			"package.json": `{"dependencies":{"react":"^18.0.0"}}`,
		},
	}
	c := New(reader)

	got := c.Classify(context.Background(), "token", testRepo)
	if got != TypeLaravel {
		t.Errorf("expected Laravel, got %s", got)
	}
}

func TestClassifyJSFrameworks(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     ProjectType
	}{
		{"react native", `{"dependencies":{"react-native":"0.73.0","react":"18.2.0"}}`, TypeReactNative},
		{"react", `{"dependencies":{"react":"18.2.0"}}`, TypeReact},
		{"vue", `{"dependencies":{"vue":"3.4.0"}}`, TypeVue},
		{"none", `{"dependencies":{"lodash":"4.17.0"}}`, TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeReader{
				entries: entries("package.json"),
				files:   map[string]string{"package.json": tt.manifest},
			}
			got := New(reader).Classify(context.Background(), "token", testRepo)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyAngular(t *testing.T) {
	c := New(&fakeReader{entries: entries("angular.json", "package.json")})

	got := c.Classify(context.Background(), "token", testRepo)
	if got != TypeAngular {
		t.Errorf("expected Angular, got %s", got)
	}
}

func TestClassifyListingFailure(t *testing.T) {
	c := New(&fakeReader{listErr: errors.New("upstream down")})

	got := c.Classify(context.Background(), "token", testRepo)
	if got != TypeUnknown {
		t.Errorf("expected Unknown on listing failure, got %s", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	reader := &fakeReader{
		entries: entries("artisan", "composer.json", "angular.json", "package.json"),
		files: map[string]string{
			"package.json": `{"dependencies":{"vue":"3.0.0"}}`,
		},
	}
	c := New(reader)

	first := c.Classify(context.Background(), "token", testRepo)
	for i := 0; i < 10; i++ {
		if got := c.Classify(context.Background(), "token", testRepo); got != first {
			t.Fatalf("classification changed between runs: %s vs %s", first, got)
		}
	}
}

func TestImportantPaths(t *testing.T) {
	if got := ImportantPaths(TypeLaravel); len(got) != 5 || got[0] != "app" {
		t.Errorf("unexpected Laravel paths: %v", got)
	}
	if got := ImportantPaths(TypeUnknown); len(got) != 1 || got[0] != "" {
		t.Errorf("expected Unknown to map to the root, got %v", got)
	}
}

func TestDetailsLaravel(t *testing.T) {
	reader := &fakeReader{
		files: map[string]string{
			"composer.json": `{"require":{"php":"^8.2","laravel/framework":"^11.0"},"require-dev":{"phpunit/phpunit":"^10.0"}}`,
		},
	}
	c := New(reader)

	details := c.Details(context.Background(), "token", testRepo, TypeLaravel)
	if details.Version != "^11.0" {
		t.Errorf("expected version ^11.0, got %s", details.Version)
	}
	if details.MajorDependencies["phpunit/phpunit"] != "^10.0" {
		t.Errorf("expected dev dependencies to be merged, got %v", details.MajorDependencies)
	}
}

func TestDetailsMissingManifest(t *testing.T) {
	c := New(&fakeReader{})

	details := c.Details(context.Background(), "token", testRepo, TypeReact)
	if details.Version != "Unknown" {
		t.Errorf("expected Unknown version, got %s", details.Version)
	}
	if len(details.MajorDependencies) != 0 {
		t.Errorf("expected empty dependency map, got %v", details.MajorDependencies)
	}
}
