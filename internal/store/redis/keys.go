package redis

const (
	// KeyMetadata is where the docs build publishes the metadata JSON document.
	KeyMetadata = "campstats:metadata"
)

// MetadataKey returns key, or KeyMetadata when key is empty.
func MetadataKey(key string) string {
	if key == "" {
		return KeyMetadata
	}
	return key
}
