package model

// MonthlyAmounts holds one amount per calendar month, January first. The JSON
// field names (m01..m12) are the backend's.
type MonthlyAmounts struct {
	M01 int64 `json:"m01"`
	M02 int64 `json:"m02"`
	M03 int64 `json:"m03"`
	M04 int64 `json:"m04"`
	M05 int64 `json:"m05"`
	M06 int64 `json:"m06"`
	M07 int64 `json:"m07"`
	M08 int64 `json:"m08"`
	M09 int64 `json:"m09"`
	M10 int64 `json:"m10"`
	M11 int64 `json:"m11"`
	M12 int64 `json:"m12"`
}

// Total returns the sum of all twelve months.
func (m MonthlyAmounts) Total() int64 {
	return m.M01 + m.M02 + m.M03 + m.M04 + m.M05 + m.M06 +
		m.M07 + m.M08 + m.M09 + m.M10 + m.M11 + m.M12
}
