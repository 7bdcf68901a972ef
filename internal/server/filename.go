package server

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// secureFilename reduces a client file name to a safe storage name: ASCII
// letters, digits, '_', '.', '-' only, with no path components.
func secureFilename(name string) string {
	var sb strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r <= unicode.MaxASCII && !unicode.Is(unicode.Mn, r) {
			sb.WriteRune(r)
		}
	}
	s := strings.NewReplacer("/", " ", "\\", " ").Replace(sb.String())
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	return strings.Trim(s, "._")
}

// originalFilename returns the file name as sent by the client. The multipart
// reader keeps only the last path element, which would cut names such as
// "25/11/24 - 29/11/24.docx"; the raw Content-Disposition still has it.
func originalFilename(fh *multipart.FileHeader) string {
	if _, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition")); err == nil {
		if name := strings.TrimSpace(params["filename"]); name != "" {
			return name
		}
	}
	return fh.Filename
}

// uniqueName appends -N before the extension until taken reports false.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i) + ext
		if !taken(candidate) {
			return candidate
		}
	}
}

