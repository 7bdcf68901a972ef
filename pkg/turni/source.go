package turni

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// draftPattern matches numbered draft copies such as "90_.docx".
var draftPattern = regexp.MustCompile(`^\d+_\.`)

// Input is one document handed to a run.
type Input struct {
	// Path is where the document is stored. With Content set it is informational.
	Path string `json:"path"`
	// OriginalName is the human-readable name carrying the date range.
	// If empty, the base name of Path is used.
	OriginalName string `json:"original_name,omitempty"`
	// Content holds the document bytes when it is not read from Path.
	Content []byte `json:"-"`
}

// Name returns the name the document is reported and dated by.
func (in Input) Name() string {
	if in.OriginalName != "" {
		return in.OriginalName
	}
	return filepath.Base(in.Path)
}

// IsScheduleFile reports whether a directory entry should be analyzed:
// a supported format that is not hidden, an Office lock file or a numbered
// draft. Hidden names cover the temporary files reports are staged in.
func IsScheduleFile(name string) bool {
	if !parser.IsSupported(name) {
		return false
	}
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	return !draftPattern.MatchString(name)
}

// SamePath reports whether a and b name the same file once made absolute.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// ListDocuments returns the schedule files of dir, sorted by name. Files
// matching one of exclude, such as a report written into dir, are left out.
func ListDocuments(dir string, exclude ...string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var inputs []Input
	for _, e := range entries {
		if e.IsDir() || !IsScheduleFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if excluded(path, exclude) {
			continue
		}
		inputs = append(inputs, Input{Path: path})
	}
	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].Path < inputs[j].Path
	})
	return inputs, nil
}

func excluded(path string, exclude []string) bool {
	for _, x := range exclude {
		if SamePath(path, x) {
			return true
		}
	}
	return false
}
