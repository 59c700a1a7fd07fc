package attendance

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-date key format used throughout: "YYYY-MM-DD".
const DateLayout = "2006-01-02"

// Status is the per-date mark of a student.
// The wire values match the original data files, so stored state written by
// earlier releases keeps loading unchanged.
type Status string

const (
	StatusPresent   Status = "Presente"
	StatusAbsent    Status = "Falta"
	StatusJustified Status = "Justificada"

	// StatusPending is the implicit default: it is synthesized on read for
	// any (student, date) pair without an explicit entry and is never stored.
	StatusPending Status = "Pendente"
)

// Writable reports whether the status may be recorded for a (student, date)
// pair. Pending is expressed by the absence of an entry, never written.
func (s Status) Writable() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusJustified:
		return true
	}
	return false
}

type (
	Student struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		// Attendance maps "YYYY-MM-DD" date keys to explicit statuses.
		Attendance map[string]Status `json:"attendance"`
	}

	Class struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Students []Student `json:"students"`
	}

	School struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Classes []Class `json:"classes"`
	}
)

// ResolveStatus resolves the student's status on the given date, applying
// the Pending-as-absence rule. Legacy data may contain explicit Pending
// entries; those read as Pending too.
func (s Student) ResolveStatus(date string) Status {
	if st, ok := s.Attendance[date]; ok && st.Writable() {
		return st
	}
	return StatusPending
}

// Today returns the current calendar date in the DateLayout format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ValidDate reports whether date is a well-formed "YYYY-MM-DD" calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// MarshalSchools serializes the whole school list to a single text blob.
func MarshalSchools(schools []School) (string, error) {
	data, err := json.Marshal(schools)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalSchools is the inverse of MarshalSchools. Explicit Pending
// entries in legacy data are scrubbed so they are not written back on the
// next save; absent student maps come back non-nil.
func UnmarshalSchools(text string) ([]School, error) {
	var schools []School
	if err := json.Unmarshal([]byte(text), &schools); err != nil {
		return nil, err
	}
	for i := range schools {
		for j := range schools[i].Classes {
			cls := &schools[i].Classes[j]
			if cls.Students == nil {
				cls.Students = []Student{}
			}
			for k := range cls.Students {
				st := &cls.Students[k]
				if st.Attendance == nil {
					st.Attendance = make(map[string]Status)
					continue
				}
				for date, status := range st.Attendance {
					if !status.Writable() {
						delete(st.Attendance, date)
					}
				}
			}
		}
		if schools[i].Classes == nil {
			schools[i].Classes = []Class{}
		}
	}
	return schools, nil
}

func copyStudent(st Student) Student {
	att := make(map[string]Status, len(st.Attendance))
	for date, status := range st.Attendance {
		att[date] = status
	}
	st.Attendance = att
	return st
}

func copyClass(cls Class) Class {
	students := make([]Student, len(cls.Students))
	for i, st := range cls.Students {
		students[i] = copyStudent(st)
	}
	cls.Students = students
	return cls
}

func copySchool(sch School) School {
	classes := make([]Class, len(sch.Classes))
	for i, cls := range sch.Classes {
		classes[i] = copyClass(cls)
	}
	sch.Classes = classes
	return sch
}
