package redis

import "testing"

func TestMetadataKey(t *testing.T) {
	if got := MetadataKey(""); got != KeyMetadata {
		t.Errorf("MetadataKey(\"\") = %q, want %q", got, KeyMetadata)
	}
	if got := MetadataKey("bootcamp:v2:metadata"); got != "bootcamp:v2:metadata" {
		t.Errorf("MetadataKey() = %q, want override", got)
	}
	if got := NewStore(nil, "").Key(); got != KeyMetadata {
		t.Errorf("NewStore().Key() = %q, want %q", got, KeyMetadata)
	}
}
