package parser

import "testing"

func intp(n int) *int { return &n }

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want ParsedAddress
	}{
		{
			name: "mountain lot with sub lot",
			addr: "서초구 양재동 산 123-4",
			want: ParsedAddress{MountainLot: 1, Bun: intp(123), Ji: intp(4)},
		},
		{
			name: "mountain marker glued to digits",
			addr: "서초구 양재동 산123",
			want: ParsedAddress{MountainLot: 1, Bun: intp(123), Ji: intp(0)},
		},
		{
			name: "plain lot without sub lot",
			addr: "양재동 123",
			want: ParsedAddress{Bun: intp(123), Ji: intp(0)},
		},
		{
			name: "no lot number",
			addr: "양재동",
			want: ParsedAddress{},
		},
		{
			name: "last occurrence wins",
			addr: "역삼동 10길 역삼동 123-4",
			want: ParsedAddress{Bun: intp(123), Ji: intp(4)},
		},
		{
			name: "seven digit run never matches",
			addr: "양재동 1234567",
			want: ParsedAddress{},
		},
		{
			name: "overlong sub lot cancels only the sub lot",
			addr: "양재동 123-1234567",
			want: ParsedAddress{Bun: intp(123), Ji: intp(0)},
		},
		{
			name: "busan is not a mountain lot",
			addr: "부산 123",
			want: ParsedAddress{Bun: intp(123), Ji: intp(0)},
		},
		{
			name: "lot after comma",
			addr: "서울특별시 강남구 역삼동,123-4",
			want: ParsedAddress{Bun: intp(123), Ji: intp(4)},
		},
		{
			name: "lot in parentheses",
			addr: "역삼동(123-4)",
			want: ParsedAddress{Bun: intp(123), Ji: intp(4)},
		},
		{
			name: "digits glued to hangul do not match",
			addr: "역삼동123호",
			want: ParsedAddress{},
		},
		{
			name: "hyphen with spaces",
			addr: "양재동 123 - 4",
			want: ParsedAddress{Bun: intp(123), Ji: intp(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.addr)
			if got.MountainLot != tt.want.MountainLot {
				t.Errorf("MountainLot = %d, want %d", got.MountainLot, tt.want.MountainLot)
			}
			if !eqIntp(got.Bun, tt.want.Bun) {
				t.Errorf("Bun = %v, want %v", fmtIntp(got.Bun), fmtIntp(tt.want.Bun))
			}
			if !eqIntp(got.Ji, tt.want.Ji) {
				t.Errorf("Ji = %v, want %v", fmtIntp(got.Ji), fmtIntp(tt.want.Ji))
			}
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{"mountain lot", "서초구 양재동 산 123-4", "서초구 양재동 "},
		{"plain lot", "양재동 123", "양재동 "},
		{"leading lot", "123-4 양재동", "  양재동"},
		{"no lot", "양재동", "양재동"},
		{"two lots", "역삼동 10 타워 123-4", "역삼동  타워 "},
		{"glued digits stay", "역삼동123호", "역삼동123호"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.addr); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func eqIntp(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntp(p *int) interface{} {
	if p == nil {
		return "<nil>"
	}
	return *p
}
