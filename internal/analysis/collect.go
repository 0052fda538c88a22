package analysis

import (
	"context"
	"log"
	"path"
	"strings"
	"time"

	"repo-insight/internal/github"
)

// collectOptions parameterizes the one file collector both the shallow and
// deep paths share.
type collectOptions struct {
	// roots are walked in order; "" is the repository root.
	roots []string

	// recursive expands directories depth-first; the shallow path leaves
	// this off and takes only direct root files.
	recursive bool

	// maxFiles bounds the collection; 0 means unbounded.
	maxFiles int

	// extensions, when non-empty, is a lowercase allow-list ("go", "php").
	extensions []string

	// deadline, when set, stops the walk between calls once passed. Files
	// collected before the deadline are kept.
	deadline time.Time

	// onRootDone is invoked after each root finishes or is skipped,
	// with the number of roots handled so far.
	onRootDone func(processed, total int)
}

// collectFiles walks the configured roots and fetches file contents,
// reporting how many roots were actually entered before the deadline cut the
// walk short. Every upstream failure degrades to "fewer files": a listing
// error skips that subtree, a missing file is skipped, and a passed deadline
// ends the walk with whatever was gathered.
func collectFiles(ctx context.Context, client RepoClient, token string, repo github.Repo, opts collectOptions) ([]FileRecord, int) {
	var files []FileRecord
	walkedRoots := 0

	allowed := make(map[string]bool, len(opts.extensions))
	for _, ext := range opts.extensions {
		allowed[strings.ToLower(ext)] = true
	}

	expired := func() bool {
		return !opts.deadline.IsZero() && time.Now().After(opts.deadline)
	}
	full := func() bool {
		return opts.maxFiles > 0 && len(files) >= opts.maxFiles
	}

	// Important-path tables may overlap ("src" and "src/components"); each
	// directory is listed at most once so no file is collected twice.
	visited := make(map[string]bool)

	var walk func(dir string)
	walk = func(dir string) {
		if visited[dir] {
			return
		}
		visited[dir] = true

		if expired() || full() {
			return
		}

		entries, err := client.ListContents(ctx, token, repo, dir)
		if err != nil {
			log.Printf("analysis: skipping %q in %s: %v", dir, repo.FullName(), err)
			return
		}

		for _, entry := range entries {
			if expired() || full() {
				return
			}

			switch entry.Type {
			case "file":
				if len(allowed) > 0 && !allowed[extension(entry.Name)] {
					continue
				}

				content, err := client.GetFileContent(ctx, token, repo, entry.Path)
				if err != nil {
					log.Printf("analysis: failed to fetch %s in %s: %v", entry.Path, repo.FullName(), err)
					continue
				}
				if content == nil {
					continue
				}

				files = append(files, FileRecord{
					Path:      entry.Path,
					Content:   content,
					Size:      entry.Size,
					Extension: extension(entry.Name),
				})
			case "dir":
				if opts.recursive {
					walk(entry.Path)
				}
			}
		}
	}

	for i, root := range opts.roots {
		if !expired() && !full() {
			walk(root)
			walkedRoots++
		}
		if opts.onRootDone != nil {
			opts.onRootDone(i+1, len(opts.roots))
		}
	}

	return files, walkedRoots
}

func extension(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return strings.ToLower(ext)
}
