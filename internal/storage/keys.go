package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultFolder is the object key prefix used when no folder is requested.
const DefaultFolder = "stalls"

// DefaultFileName is sanitized and used when the caller supplies no filename.
const DefaultFileName = "upload"

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9._-] with "_".
func SanitizeFileName(value string) string {
	return unsafeFileChars.ReplaceAllString(value, "_")
}

// ObjectKey derives the storage key for an upload:
// {folder}/{email}/{epochMillis}-{sanitizedFileName}.
// Two uploads by the same owner in the same millisecond with the same
// sanitized filename collide; there is no uniqueness suffix.
func ObjectKey(folder, email string, now time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s", folder, email, now.UnixMilli(), SanitizeFileName(fileName))
}

// PublicURL joins a public base URL and a key, stripping exactly one
// trailing slash from the base. An empty base is an error, not a fallback.
func PublicURL(base, key string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("missing storage public base URL")
	}
	return strings.TrimSuffix(base, "/") + "/" + key, nil
}
