package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/adpulse/adpulse/internal/storage"
)

// EncodeParquet serializes rows into a single parquet object.
func EncodeParquet(rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("rows are required")
	}
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[Row](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteLocal writes the dataset into dir as customer.parquet, creating
// the directory if needed.
func WriteLocal(dir string, rows []Row) (string, error) {
	data, err := EncodeParquet(rows)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, "customer.parquet")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write dataset file %q: %w", path, err)
	}
	return path, nil
}

// Upload puts the dataset into the object store under key.
func Upload(ctx context.Context, store storage.ObjectStore, key string, rows []Row) error {
	if store == nil {
		return fmt.Errorf("object store is required")
	}
	data, err := EncodeParquet(rows)
	if err != nil {
		return err
	}
	if _, err := store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/vnd.apache.parquet"); err != nil {
		return fmt.Errorf("upload dataset object %q: %w", key, err)
	}
	return nil
}
