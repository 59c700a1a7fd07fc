package attendance

import "sort"

// SortOrder mirrors the roster display ordering the user can toggle.
type SortOrder string

const (
	SortNone SortOrder = "none"
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortStudents returns a copy of the roster in the requested name order.
// The stored insertion order is never touched.
func SortStudents(students []Student, order SortOrder) []Student {
	sorted := make([]Student, len(students))
	copy(sorted, students)
	switch order {
	case SortAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	case SortDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name > sorted[j].Name })
	}
	return sorted
}

type (
	// HistoryRow is one student's resolved status for every observed date.
	HistoryRow struct {
		StudentID string   `json:"student_id"`
		Name      string   `json:"name"`
		Statuses  []Status `json:"statuses"`
	}

	// History is the class-wide attendance overview: every date any student
	// has an explicit entry for, most recent first, with one row per
	// student sorted by name.
	History struct {
		Dates []string     `json:"dates"`
		Rows  []HistoryRow `json:"rows"`
	}
)

// BuildHistory assembles the attendance history of a roster.
func BuildHistory(students []Student) History {
	dateSet := make(map[string]struct{})
	for _, st := range students {
		for date, status := range st.Attendance {
			if status.Writable() {
				dateSet[date] = struct{}{}
			}
		}
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates))) // most recent first

	rows := make([]HistoryRow, 0, len(students))
	for _, st := range SortStudents(students, SortAsc) {
		statuses := make([]Status, len(dates))
		for i, date := range dates {
			statuses[i] = st.ResolveStatus(date)
		}
		rows = append(rows, HistoryRow{StudentID: st.ID, Name: st.Name, Statuses: statuses})
	}
	return History{Dates: dates, Rows: rows}
}
