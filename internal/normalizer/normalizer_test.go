package normalizer

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"legacy seoul short form", "서울시 강남구 역삼동", "서울특별시 강남구 역삼동"},
		{"split special city", "서울 특별시 강남구", "서울특별시 강남구"},
		{"split metropolitan suffix", "부산 광역 시 해운대구", "부산 광역시 해운대구"},
		{"fullwidth dash", "역삼동 123－4", "역삼동 123-4"},
		{"en dash", "역삼동 123–4", "역삼동 123-4"},
		{"em dash", "역삼동 123—4", "역삼동 123-4"},
		{"whitespace runs", "서울특별시   강남구\t역삼동", "서울특별시 강남구 역삼동"},
		{"already canonical", "서울특별시 강남구 역삼동 123-4", "서울특별시 강남구 역삼동 123-4"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.in)
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Canonicalize(got); again != got {
				t.Errorf("Canonicalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCanonicalProvince(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"서울", "서울특별시"},
		{"서울시", "서울특별시"},
		{"경기", "경기도"},
		{"강원도", "강원특별자치도"},
		{"전북", "전북특별자치도"},
		{"전라북도", "전북특별자치도"},
		{"제주", "제주특별자치도"},
		{"세종", "세종특별자치시"},
		{"경남", "경상남도"},
		{"서울특별시", "서울특별시"},
		{"강남구", "강남구"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalProvince(tt.in); got != tt.want {
			t.Errorf("CanonicalProvince(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
