package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extMimeMap refines text-detected uploads by extension. Content sniffing
// alone cannot tell these formats apart once they read as plain text.
var extMimeMap = map[string]string{
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".html": "text/html",
	".htm":  "text/html",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
}

// DetectMimeType sniffs the MIME type of an uploaded document from its
// content, refining "text/plain" results by file extension.
func DetectMimeType(content []byte, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	contentType := mimetype.Detect(content).String()

	if strings.HasPrefix(contentType, "text/plain") {
		if refined, ok := extMimeMap[ext]; ok {
			return strings.Replace(contentType, "text/plain", refined, 1)
		}
	}
	return contentType
}
