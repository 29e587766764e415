package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/changetree/internal/contract"
)

// writeToTarget runs write against outputFile, or stdout when it is empty.
// A note naming the written format goes to stderr for real files.
func writeToTarget(outputFile, format string, write func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file == os.Stdout {
		return write(file)
	}
	defer func() { _ = file.Close() }()

	if err := write(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", format, outputFile)
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSV writes header followed by rows and reports any buffered write error.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// shareFormatter renders a fraction in [0, 1] as a percentage with precision decimals.
func shareFormatter(precision int) func(float64) string {
	return func(fraction float64) string {
		return fmt.Sprintf("%.*f", precision, fraction*100)
	}
}
