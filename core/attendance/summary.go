package attendance

// Summary holds the per-date head count of a class.
// The four buckets always sum to Total.
type Summary struct {
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Justified int `json:"justified"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// Summarize buckets every student by their resolved status on the given
// date. An empty roster yields a zero-filled summary.
func Summarize(students []Student, date string) Summary {
	summary := Summary{Total: len(students)}
	for _, st := range students {
		switch st.ResolveStatus(date) {
		case StatusPresent:
			summary.Present++
		case StatusAbsent:
			summary.Absent++
		case StatusJustified:
			summary.Justified++
		default:
			summary.Pending++
		}
	}
	return summary
}
