package minio

import "strings"

const maxMetadataValueLen = 1024

// ObjectPath joins path components into an object key, dropping empty parts and stray slashes.
func ObjectPath(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.Trim(part, "/"); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, "/")
}

// sanitizeMetadata drops empty values, normalizes keys and caps value length.
func sanitizeMetadata(metadata map[string]string) map[string]string {
	sanitized := make(map[string]string, len(metadata))
	for key, value := range metadata {
		if value == "" {
			continue
		}
		k := strings.ToLower(strings.ReplaceAll(key, " ", "_"))
		if len(value) > maxMetadataValueLen {
			value = value[:maxMetadataValueLen]
		}
		sanitized[k] = value
	}
	return sanitized
}
