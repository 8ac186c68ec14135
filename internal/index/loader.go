package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/pnu-resolver/app/models"
)

// LoadCSV reads the 법정동 reference table. The header must carry a 법정동
// (full name) column and a pnu (or 법정동코드) column; anything else in the
// file is ignored. Codes shorter than ten digits are left-padded with
// zeros, rows without both fields are skipped.
func LoadCSV(path, encoding string) ([]models.DistrictRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "cp949", "euc-kr", "euckr":
		src = transform.NewReader(f, korean.EUCKR.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported reference table encoding %q", encoding)
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read reference table header: %w", err)
	}

	nameCol, codeCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")) {
		case "법정동":
			nameCol = i
		case "pnu", "법정동코드":
			if codeCol < 0 {
				codeCol = i
			}
		}
	}
	if nameCol < 0 || codeCol < 0 {
		return nil, fmt.Errorf("reference table missing 법정동/pnu columns")
	}

	var rows []models.DistrictRecord
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference table row: %w", err)
		}
		if nameCol >= len(rec) || codeCol >= len(rec) {
			continue
		}
		name := strings.TrimSpace(rec[nameCol])
		code := strings.TrimSpace(rec[codeCol])
		if name == "" || code == "" {
			continue
		}
		if len(code) < 10 {
			code = strings.Repeat("0", 10-len(code)) + code
		}
		rows = append(rows, models.DistrictRecord{FullName: name, Code10: code})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("reference table %s has no usable rows", path)
	}
	return rows, nil
}
