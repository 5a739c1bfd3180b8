package core

// DailyTotal is the summed amount for one calendar date.
type DailyTotal struct {
	Date  string `json:"date"`
	Total Money  `json:"total"`
}

// MonthlyTotal is the summed amount for one YYYY-MM month.
type MonthlyTotal struct {
	Month string `json:"month"`
	Total Money  `json:"total"`
}

// YearlyTotal is the summed amount for one YYYY year.
type YearlyTotal struct {
	Year  string `json:"year"`
	Total Money  `json:"total"`
}

// Summary bundles the three aggregates for one account. Each slice is
// ordered most recent bucket first; buckets exist only for dates that have
// at least one expense, so a zero-valued bucket never appears.
type Summary struct {
	Daily   []DailyTotal   `json:"daily"`
	Monthly []MonthlyTotal `json:"monthly"`
	Yearly  []YearlyTotal  `json:"yearly"`
}
