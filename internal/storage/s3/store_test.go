package s3

import "testing"

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"localhost:9000", false, "localhost:9000", false},
		{"localhost:9000", true, "localhost:9000", true},
		{"http://minio.internal:9000", true, "minio.internal:9000", true},
		{"https://s3.amazonaws.com", false, "s3.amazonaws.com", true},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.raw, tc.useSSL)
		if err != nil {
			t.Fatalf("parseEndpoint(%q) error = %v", tc.raw, err)
		}
		if host != tc.wantHost || secure != tc.wantSecure {
			t.Fatalf("parseEndpoint(%q) = %q, %v", tc.raw, host, secure)
		}
	}
}

func TestParseEndpointRequiresHost(t *testing.T) {
	if _, _, err := parseEndpoint("  ", false); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
	if _, _, err := parseEndpoint("http://", false); err == nil {
		t.Fatal("expected error for empty host")
	}
}

func TestNormalizeKeyRejectsTraversal(t *testing.T) {
	store := &Store{prefix: "datasets/customer"}
	if _, err := store.normalizeKey("../secrets.parquet"); err == nil {
		t.Fatal("expected error for traversal key")
	}
	got, err := store.normalizeKey("part-0001.parquet")
	if err != nil {
		t.Fatalf("normalizeKey() error = %v", err)
	}
	if got != "datasets/customer/part-0001.parquet" {
		t.Fatalf("normalizeKey() = %q", got)
	}
}

func TestCleanPrefix(t *testing.T) {
	if got := cleanPrefix("/datasets/customer/"); got != "datasets/customer" {
		t.Fatalf("cleanPrefix() = %q", got)
	}
	if got := cleanPrefix("  "); got != "" {
		t.Fatalf("cleanPrefix() = %q", got)
	}
}
