package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	ftracker "github.com/lucasjlepore/fit-tracker"
)

// ParsePackages decodes a package list. The format is chosen by the file extension of name:
//   - .json: [{"type":"RUN","data":[15000,1,75]}, ...]
//   - .csv:  one packet per row, code first (RUN,15000,1,75); blank lines and # comments are skipped
//   - .toml: [[package]] tables with type and data keys
func ParsePackages(name string, data []byte) ([]ftracker.Package, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		var pkgs []ftracker.Package
		if err := json.Unmarshal(data, &pkgs); err != nil {
			return nil, fmt.Errorf("decode json packages: %w", err)
		}
		return pkgs, nil
	case ".csv":
		return parseCSVPackages(data)
	case ".toml":
		var doc struct {
			Package []ftracker.Package `toml:"package"`
		}
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decode toml packages: %w", err)
		}
		return doc.Package, nil
	default:
		return nil, fmt.Errorf("unsupported package file %q (expected .json|.csv|.toml)", name)
	}
}

func parseCSVPackages(data []byte) ([]ftracker.Package, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true

	var pkgs []ftracker.Package
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv packages: %w", err)
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		line, _ := r.FieldPos(0)
		p := ftracker.Package{Type: strings.TrimSpace(row[0])}
		cells := row[1:]
		for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
			cells = cells[:len(cells)-1]
		}
		for i, cell := range cells {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				return nil, fmt.Errorf("csv line %d column %d: empty value", line, i+2)
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %d: %w", line, i+2, err)
			}
			p.Data = append(p.Data, v)
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}
