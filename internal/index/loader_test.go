package index

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/korean"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	csv := "법정동,pnu,비고\n" +
		"서울특별시 강남구 역삼동,1168010100,\n" +
		"경기도 시흥시 신천동,4139012600,x\n" +
		",9999999999,\n" +
		"세종특별자치시 반곡동,3611011200,\n"

	rows, err := LoadCSV(writeTemp(t, "bjd.csv", []byte(csv)), "")
	if err != nil {
		t.Fatalf("LoadCSV() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("LoadCSV() rows = %d, want 3", len(rows))
	}
	if rows[0].FullName != "서울특별시 강남구 역삼동" || rows[0].Code10 != "1168010100" {
		t.Errorf("row 0 = %+v", rows[0])
	}
}

func TestLoadCSVPadsShortCodes(t *testing.T) {
	csv := "법정동,pnu\n서울특별시 종로구 청운동,168010100\n"
	rows, err := LoadCSV(writeTemp(t, "bjd.csv", []byte(csv)), "utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Code10 != "0168010100" {
		t.Errorf("Code10 = %q, want zero-padded", rows[0].Code10)
	}
}

func TestLoadCSVBOMHeader(t *testing.T) {
	csv := "\uFEFF법정동,pnu\n서울특별시 강남구 역삼동,1168010100\n"
	rows, err := LoadCSV(writeTemp(t, "bjd_bom.csv", []byte(csv)), "")
	if err != nil {
		t.Fatalf("LoadCSV() error: %v", err)
	}
	if rows[0].FullName != "서울특별시 강남구 역삼동" {
		t.Errorf("FullName = %q", rows[0].FullName)
	}
}

func TestLoadCSVLegacyCodeColumn(t *testing.T) {
	csv := "법정동코드,법정동\n1168010100,서울특별시 강남구 역삼동\n"
	rows, err := LoadCSV(writeTemp(t, "bjd.csv", []byte(csv)), "")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Code10 != "1168010100" {
		t.Errorf("Code10 = %q", rows[0].Code10)
	}
}

func TestLoadCSVCp949(t *testing.T) {
	utf8CSV := "법정동,pnu\n서울특별시 강남구 역삼동,1168010100\n"
	enc, err := korean.EUCKR.NewEncoder().Bytes([]byte(utf8CSV))
	if err != nil {
		t.Fatal(err)
	}

	rows, err := LoadCSV(writeTemp(t, "bjd_cp949.csv", enc), "cp949")
	if err != nil {
		t.Fatalf("LoadCSV() error: %v", err)
	}
	if rows[0].FullName != "서울특별시 강남구 역삼동" {
		t.Errorf("FullName = %q", rows[0].FullName)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), ""); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("missing columns", func(t *testing.T) {
		p := writeTemp(t, "bad.csv", []byte("이름,코드\na,b\n"))
		if _, err := LoadCSV(p, ""); err == nil {
			t.Error("expected error for missing header columns")
		}
	})

	t.Run("no usable rows", func(t *testing.T) {
		p := writeTemp(t, "empty.csv", []byte("법정동,pnu\n"))
		if _, err := LoadCSV(p, ""); err == nil {
			t.Error("expected error for empty table")
		}
	})

	t.Run("bad encoding name", func(t *testing.T) {
		p := writeTemp(t, "x.csv", []byte("법정동,pnu\na,1\n"))
		if _, err := LoadCSV(p, "utf-16"); err == nil {
			t.Error("expected error for unsupported encoding")
		}
	})
}
