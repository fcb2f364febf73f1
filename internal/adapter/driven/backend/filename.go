package backend

import (
	"mime"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// lenientFilename matches filename parameters that mime.ParseMediaType
// rejects, such as unquoted names containing spaces.
var lenientFilename = regexp.MustCompile(`(?i)filename\*?\s*=\s*("[^"]*"|'[^']*'|[^;\n]*)`)

const utf8Prefix = "UTF-8''"

// ParseFilename recovers a human-readable filename from a Content-Disposition
// header. Both the RFC 5987 form (filename*=UTF-8''%EC%84%8C.xlsx) and the
// quoted or bare filename= form are accepted.
func ParseFilename(contentDisposition string) (string, bool) {
	if strings.TrimSpace(contentDisposition) == "" {
		return "", false
	}

	if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
		if name := strings.TrimSpace(params["filename"]); name != "" {
			return decodeExtended(name)
		}
	}

	m := lenientFilename.FindStringSubmatch(contentDisposition)
	if m == nil {
		return "", false
	}
	return decodeExtended(strings.Trim(strings.TrimSpace(m[1]), `"'`))
}

// decodeExtended percent-decodes a name still carrying the UTF-8'' charset
// prefix. Some servers quote the extended form as a plain filename.
func decodeExtended(name string) (string, bool) {
	if len(name) >= len(utf8Prefix) && strings.EqualFold(name[:len(utf8Prefix)], utf8Prefix) {
		decoded, err := url.PathUnescape(name[len(utf8Prefix):])
		if err != nil {
			return "", false
		}
		name = decoded
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// GeneratedFilename builds a fallback download name stamped with now's date,
// e.g. "download_20261017".
func GeneratedFilename(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "download"
	}
	return prefix + "_" + now.Format("20060102")
}
