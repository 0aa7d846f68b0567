package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/persistorai/citegraph/client"
)

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// readDocumentList reads one document ID per line. Blank lines and lines
// starting with # are skipped.
func readDocumentList(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read document list: %w", err)
	}
	return ids, nil
}

// documentArgs merges positional IDs with those read from file, if set.
func documentArgs(args []string, file string) ([]string, error) {
	ids := append([]string(nil), args...)
	if file != "" {
		rc, err := openInput(file)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		more, err := readDocumentList(rc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, more...)
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one document ID is required")
	}
	return ids, nil
}

// readEdgeCSV reads a source,target edge list. A leading source,target header
// row is skipped.
func readEdgeCSV(r io.Reader) ([]client.Link, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var links []client.Link
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read edge list: %w", err)
		}
		if i == 0 && strings.EqualFold(rec[0], "source") && strings.EqualFold(rec[1], "target") {
			continue
		}
		links = append(links, client.Link{Source: rec[0], Target: rec[1]})
	}
	return links, nil
}
