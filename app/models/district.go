package models

// DistrictRecord is one row of the 법정동 reference table: the full
// administrative name and its 10-digit code. Loaded once at startup and
// never mutated.
type DistrictRecord struct {
	FullName string // normalized full name, e.g. "서울특별시 서초구 양재동"
	Code10   string // exactly 10 ASCII digits, left-zero-padded
}
