package attendance

import (
	"errors"
	"strings"
	"sync"

	"github.com/ericardos/chamada-escolar/core"
)

var (
	// errors
	ErrSchoolNotFound  = errors.New("school not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrBadDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrBadStatus       = errors.New("only Presente, Falta or Justificada can be recorded")
)

type (
	// Store is the persistence bridge: a client-local text store holding the
	// whole serialized school list. Load reports absence via ok=false.
	Store interface {
		Load() (text string, ok bool)
		Save(text string) error
	}

	// Service owns the school list and the active selection cursors, and is
	// the only mutator of either. Every structural mutation persists the full
	// state through the Store before returning; save failures are logged and
	// never surfaced, so no operation is fatal.
	//
	// CheckIn treats the scanned payload as the raw student id: the id is
	// both identifier and implicit credential. That is the original
	// check-in contract, kept deliberately.
	Service struct {
		mu     sync.RWMutex
		store  Store
		idgen  IDGenerator
		logger core.Logger

		schools        []School
		activeSchoolID string
		activeClassID  string
	}
)

// NewService hydrates state from the store. Absent or malformed stored text
// yields an empty school list; corruption is logged, never returned.
func NewService(store Store, idgen IDGenerator, logger core.Logger) *Service {
	svc := &Service{
		store:   store,
		idgen:   idgen,
		logger:  logger,
		schools: []School{},
	}
	if text, ok := store.Load(); ok {
		schools, err := UnmarshalSchools(text)
		if err != nil {
			logger.Error("attendance: discarding malformed stored state", err)
		} else {
			svc.schools = schools
		}
	}
	svc.normalizeSelection()
	return svc
}

// Queries

// Schools returns a deep copy of the school list.
func (svc *Service) Schools() []School {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	schools := make([]School, len(svc.schools))
	for i, sch := range svc.schools {
		schools[i] = copySchool(sch)
	}
	return schools
}

func (svc *Service) ActiveSchoolID() string {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.activeSchoolID
}

func (svc *Service) ActiveClassID() string {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.activeClassID
}

func (svc *Service) GetSchool(id string) (School, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if sch := svc.findSchool(id); sch != nil {
		return copySchool(*sch), nil
	}
	return School{}, ErrSchoolNotFound
}

func (svc *Service) GetClass(id string) (Class, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if _, cls := svc.findClass(id); cls != nil {
		return copyClass(*cls), nil
	}
	return Class{}, ErrClassNotFound
}

// GetClassSchool returns the class along with its owning school.
func (svc *Service) GetClassSchool(id string) (Class, School, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if sch, cls := svc.findClass(id); cls != nil {
		return copyClass(*cls), copySchool(*sch), nil
	}
	return Class{}, School{}, ErrClassNotFound
}

// Mutations

// AddSchool creates a school with the trimmed name, appends it and makes it
// active. The name must not trim to empty.
func (svc *Service) AddSchool(name string) (School, error) {
	name = core.CleanString(name)
	if name == "" {
		return School{}, ErrEmptyName
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	sch := School{ID: svc.idgen.NewID(), Name: name, Classes: []Class{}}
	svc.schools = append(svc.schools, sch)
	svc.activeSchoolID = sch.ID
	svc.activeClassID = ""
	svc.persist()
	return copySchool(sch), nil
}

// DeleteSchool cascades to the school's classes and their students. When the
// deleted school was active, the sibling just before the deleted index
// (clamped to 0) becomes active, or no school when none remain.
func (svc *Service) DeleteSchool(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	idx := -1
	for i := range svc.schools {
		if svc.schools[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSchoolNotFound
	}

	svc.schools = append(svc.schools[:idx], svc.schools[idx+1:]...)
	if svc.activeSchoolID == id {
		svc.activeSchoolID = ""
		if len(svc.schools) > 0 {
			prev := idx - 1
			if prev < 0 {
				prev = 0
			}
			svc.activeSchoolID = svc.schools[prev].ID
		}
		svc.activeClassID = ""
	}
	svc.normalizeSelection()
	svc.persist()
	return nil
}

// AddClass creates a class under the school and makes both active.
func (svc *Service) AddClass(schoolID, name string) (Class, error) {
	name = core.CleanString(name)
	if name == "" {
		return Class{}, ErrEmptyName
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	sch := svc.findSchool(schoolID)
	if sch == nil {
		return Class{}, ErrSchoolNotFound
	}

	cls := Class{ID: svc.idgen.NewID(), Name: name, Students: []Student{}}
	sch.Classes = append(sch.Classes, cls)
	svc.activeSchoolID = sch.ID
	svc.activeClassID = cls.ID
	svc.persist()
	return copyClass(cls), nil
}

// DeleteClass cascades to the class's students. The active-class repair uses
// the same previous-sibling rule as DeleteSchool, scoped to the owning
// school.
func (svc *Service) DeleteClass(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sch, _ := svc.findClass(id)
	if sch == nil {
		return ErrClassNotFound
	}

	idx := -1
	for i := range sch.Classes {
		if sch.Classes[i].ID == id {
			idx = i
			break
		}
	}
	sch.Classes = append(sch.Classes[:idx], sch.Classes[idx+1:]...)

	if svc.activeClassID == id {
		svc.activeClassID = ""
		if len(sch.Classes) > 0 {
			prev := idx - 1
			if prev < 0 {
				prev = 0
			}
			svc.activeClassID = sch.Classes[prev].ID
		}
	}
	svc.normalizeSelection()
	svc.persist()
	return nil
}

// AddStudent appends a student with a fresh id and empty attendance.
func (svc *Service) AddStudent(classID, name string) (Student, error) {
	name = core.CleanString(name)
	if name == "" {
		return Student{}, ErrEmptyName
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, cls := svc.findClass(classID)
	if cls == nil {
		return Student{}, ErrClassNotFound
	}

	st := Student{ID: svc.idgen.NewID(), Name: name, Attendance: make(map[string]Status)}
	cls.Students = append(cls.Students, st)
	svc.persist()
	return copyStudent(st), nil
}

// BulkAddStudents creates one student per non-blank line of text, in line
// order, handling any line-ending convention. Used for roster import.
func (svc *Service) BulkAddStudents(classID, text string) ([]Student, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, cls := svc.findClass(classID)
	if cls == nil {
		return nil, ErrClassNotFound
	}

	added := make([]Student, 0)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		name := core.CleanString(strings.TrimSuffix(line, "\r"))
		if name == "" {
			continue
		}
		st := Student{ID: svc.idgen.NewID(), Name: name, Attendance: make(map[string]Status)}
		cls.Students = append(cls.Students, st)
		added = append(added, copyStudent(st))
	}
	if len(added) > 0 {
		svc.persist()
	}
	return added, nil
}

// DeleteStudent removes the matching student from the class's sequence.
func (svc *Service) DeleteStudent(classID, studentID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, cls := svc.findClass(classID)
	if cls == nil {
		return ErrClassNotFound
	}

	for i := range cls.Students {
		if cls.Students[i].ID == studentID {
			cls.Students = append(cls.Students[:i], cls.Students[i+1:]...)
			svc.persist()
			return nil
		}
	}
	return ErrStudentNotFound
}

// ClearStudents discards the whole student sequence of the class.
func (svc *Service) ClearStudents(classID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, cls := svc.findClass(classID)
	if cls == nil {
		return ErrClassNotFound
	}

	cls.Students = []Student{}
	svc.persist()
	return nil
}

// SetAttendance records the status for the (student, date) pair, overwriting
// any previous entry. Pending cannot be recorded; it is expressed by key
// absence.
func (svc *Service) SetAttendance(classID, studentID, date string, status Status) error {
	if !status.Writable() {
		return ErrBadStatus
	}
	if !ValidDate(date) {
		return ErrBadDate
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, cls := svc.findClass(classID)
	if cls == nil {
		return ErrClassNotFound
	}

	for i := range cls.Students {
		if cls.Students[i].ID == studentID {
			if cls.Students[i].Attendance == nil {
				cls.Students[i].Attendance = make(map[string]Status)
			}
			cls.Students[i].Attendance[date] = status
			svc.persist()
			return nil
		}
	}
	return ErrStudentNotFound
}

// CheckIn marks the student with the scanned id Present on the date and
// returns their name. An id not in the class's roster mutates nothing and
// reports ErrStudentNotFound.
func (svc *Service) CheckIn(classID, scannedID, date string) (string, error) {
	if !ValidDate(date) {
		return "", ErrBadDate
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, cls := svc.findClass(classID)
	if cls == nil {
		return "", ErrClassNotFound
	}

	for i := range cls.Students {
		if cls.Students[i].ID == scannedID {
			if cls.Students[i].Attendance == nil {
				cls.Students[i].Attendance = make(map[string]Status)
			}
			cls.Students[i].Attendance[date] = StatusPresent
			svc.persist()
			return cls.Students[i].Name, nil
		}
	}
	return "", ErrStudentNotFound
}

// Selection

func (svc *Service) SetActiveSchool(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.findSchool(id) == nil {
		return ErrSchoolNotFound
	}
	if svc.activeSchoolID != id {
		svc.activeSchoolID = id
		svc.activeClassID = ""
	}
	svc.normalizeSelection()
	return nil
}

func (svc *Service) SetActiveClass(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sch, _ := svc.findClass(id)
	if sch == nil {
		return ErrClassNotFound
	}
	svc.activeSchoolID = sch.ID
	svc.activeClassID = id
	return nil
}

// internals — callers hold the lock

func (svc *Service) findSchool(id string) *School {
	for i := range svc.schools {
		if svc.schools[i].ID == id {
			return &svc.schools[i]
		}
	}
	return nil
}

func (svc *Service) findClass(id string) (*School, *Class) {
	for i := range svc.schools {
		for j := range svc.schools[i].Classes {
			if svc.schools[i].Classes[j].ID == id {
				return &svc.schools[i], &svc.schools[i].Classes[j]
			}
		}
	}
	return nil, nil
}

// normalizeSelection repairs dangling or empty cursors: the first remaining
// sibling when the collection is non-empty, none otherwise.
func (svc *Service) normalizeSelection() {
	if svc.findSchool(svc.activeSchoolID) == nil {
		svc.activeSchoolID = ""
		if len(svc.schools) > 0 {
			svc.activeSchoolID = svc.schools[0].ID
		}
	}

	sch := svc.findSchool(svc.activeSchoolID)
	if sch == nil {
		svc.activeClassID = ""
		return
	}
	for i := range sch.Classes {
		if sch.Classes[i].ID == svc.activeClassID {
			return
		}
	}
	svc.activeClassID = ""
	if len(sch.Classes) > 0 {
		svc.activeClassID = sch.Classes[0].ID
	}
}

func (svc *Service) persist() {
	text, err := MarshalSchools(svc.schools)
	if err != nil {
		svc.logger.Error("attendance: could not serialize state", err)
		return
	}
	if err := svc.store.Save(text); err != nil {
		svc.logger.Error("attendance: could not persist state", err)
	}
}
