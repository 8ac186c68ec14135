package normalizer

import "strings"

// provinceSynonyms maps common short forms of the 17 province-level
// divisions (시/도) to their official full names, including the special
// self-governing renamings (강원, 전북, 제주, 세종). Static domain data,
// independent of the loaded reference table.
var provinceSynonyms = map[string]string{
	"서울": "서울특별시", "서울시": "서울특별시",
	"부산": "부산광역시", "부산시": "부산광역시",
	"인천": "인천광역시", "인천시": "인천광역시",
	"대구": "대구광역시", "대구시": "대구광역시",
	"대전": "대전광역시", "대전시": "대전광역시",
	"광주": "광주광역시", "광주시": "광주광역시",
	"울산": "울산광역시", "울산시": "울산광역시",
	"세종": "세종특별자치시", "세종시": "세종특별자치시",
	"제주": "제주특별자치도", "제주시": "제주특별자치도",
	"경기": "경기도",
	"강원": "강원특별자치도", "강원도": "강원특별자치도",
	"충북": "충청북도", "충남": "충청남도",
	"전북": "전북특별자치도", "전라북도": "전북특별자치도",
	"전남": "전라남도",
	"경북": "경상북도", "경남": "경상남도",
}

// CanonicalProvince expands a leading province token to its official full
// name. Unknown tokens come back unchanged.
func CanonicalProvince(token string) string {
	t := strings.TrimSpace(token)
	if full, ok := provinceSynonyms[t]; ok {
		return full
	}
	return t
}
