package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const readBatchSize = 1024

// readParquet reads every row of a Parquet extract file into memory,
// after checking that the file's schema carries all required columns.
func readParquet[T any](path string, required []string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	// Validate the file's own schema, not the target struct's: the
	// generic reader zero-fills columns the file lacks, which would let a
	// malformed extract slip through as all-null records.
	if err := validateParquetSchema(path, pf.Schema(), required); err != nil {
		return nil, err
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	out := make([]T, 0, reader.NumRows())
	buf := make([]T, readBatchSize)
	for {
		n, readErr := reader.Read(buf)
		out = append(out, buf[:n]...)
		if readErr == io.EOF {
			return out, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}
}

// validateParquetSchema checks the Parquet field names against the
// required column list, mirroring the CSV header preflight.
func validateParquetSchema(file string, schema *parquet.Schema, required []string) error {
	header := make(map[string]int)
	for i, field := range schema.Fields() {
		header[strings.ToLower(field.Name())] = i
	}
	return checkColumns(file, header, required)
}
