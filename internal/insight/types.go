package insight

// Point is one value of a metric series. Type names the source metric when a
// lookup merges several series ("open", "close", "merge", "add", ...).
type Point struct {
	Date  string  `json:"date"`
	Type  string  `json:"type,omitempty"`
	Value float64 `json:"value"`
}

// PeriodData groups points by the granularity of their date key.
type PeriodData struct {
	Year    []Point `json:"year"`
	Quarter []Point `json:"quarter"`
	Month   []Point `json:"month"`
}

// HeatCell is the number of active events in one hour of one weekday.
// Day runs 1 (Monday) to 7 (Sunday), Hour 0 to 23.
type HeatCell struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Value int `json:"value"`
}

// ActiveDatesAndTimes is the weekly activity heatmap of one year.
type ActiveDatesAndTimes struct {
	Year  string     `json:"year"`
	Cells []HeatCell `json:"cells"`
}

// labelled pairs an OpenDigger metric with the point type it is reported as.
type labelled struct {
	metric string
	label  string
}
