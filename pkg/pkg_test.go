package pkg

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	t.Parallel()

	if Name != "treewalk" {
		t.Errorf("Name = %q", Name)
	}

	if Description == "" {
		t.Error("Description is empty")
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version) {
		t.Errorf("Version = %q, want semantic version", Version)
	}

	if Version != strings.TrimSpace(Version) {
		t.Errorf("Version has surrounding space: %q", Version)
	}
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew"
	}) {
		t.Errorf("Author = %v", Author)
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/treewalk", "treewalk"},
		{"/opt/tw.bin", "tw"},
		{"/tmp/__debug_bin3141", Name},
		{"/home/u/.scene.sh", "scene"},
		{"...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := prefixOf(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	t.Parallel()

	if filepath.Dir(ConfigFile()) != ConfigDir() {
		t.Errorf("ConfigFile() = %q not under %q", ConfigFile(), ConfigDir())
	}

	if filepath.Base(HistoryFile()) != HistoryBase {
		t.Errorf("HistoryFile() = %q", HistoryFile())
	}
}
