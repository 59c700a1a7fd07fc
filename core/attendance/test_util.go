package attendance

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ericardos/chamada-escolar/core"
)

// seqIDGenerator hands out "id-1", "id-2", ... for deterministic tests.
type seqIDGenerator struct {
	count int
}

func NewSeqIDGenerator() IDGenerator { return &seqIDGenerator{} }

func (g *seqIDGenerator) NewID() string {
	g.count++
	return fmt.Sprintf("id-%d", g.count)
}

// recordingStore keeps the last saved blob in memory and counts saves.
type recordingStore struct {
	text  string
	ok    bool
	saves int
}

func (s *recordingStore) Load() (string, bool) { return s.text, s.ok }

func (s *recordingStore) Save(text string) error {
	s.text = text
	s.ok = true
	s.saves++
	return nil
}

func testLogger() core.Logger {
	return core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
}

func newTestService() (*Service, *recordingStore) {
	store := &recordingStore{}
	svc := NewService(store, NewSeqIDGenerator(), testLogger())
	return svc, store
}

func addSchool(t *testing.T, svc *Service, name string) School {
	sch, err := svc.AddSchool(name)
	if err != nil {
		t.Fatalf("addSchool() failed: %v", err)
	}
	return sch
}

func addClass(t *testing.T, svc *Service, schoolID, name string) Class {
	cls, err := svc.AddClass(schoolID, name)
	if err != nil {
		t.Fatalf("addClass() failed: %v", err)
	}
	return cls
}

func addStudent(t *testing.T, svc *Service, classID, name string) Student {
	st, err := svc.AddStudent(classID, name)
	if err != nil {
		t.Fatalf("addStudent() failed: %v", err)
	}
	return st
}
