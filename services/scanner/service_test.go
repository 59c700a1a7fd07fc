package scansvc

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericardos/chamada-escolar/core"
	"github.com/ericardos/chamada-escolar/core/attendance"
	"github.com/ericardos/chamada-escolar/storage/localstore"
)

func setup(t *testing.T) (*attendance.Service, attendance.Class, attendance.Student) {
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	svc := attendance.NewService(localstore.NewMemStore(), attendance.NewSeqIDGenerator(), logger)

	sch, err := svc.AddSchool("Escola")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	cls, err := svc.AddClass(sch.ID, "Turma A")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	ana, err := svc.AddStudent(cls.ID, "Ana")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return svc, cls, ana
}

func TestScanner_Deliver(t *testing.T) {
	svc, cls, ana := setup(t)
	scanner := NewScanner(svc, 2*time.Second)

	res, processed := scanner.Deliver(cls.ID, ana.ID, "2024-02-01")
	assert.True(t, processed)
	assert.True(t, res.OK)
	assert.Equal(t, "Ana", res.StudentName)

	got, _ := svc.GetClass(cls.ID)
	assert.Equal(t, attendance.StatusPresent, got.Students[0].ResolveStatus("2024-02-01"))
}

func TestScanner_Deliver_unknownCode(t *testing.T) {
	svc, cls, _ := setup(t)
	scanner := NewScanner(svc, 0)

	res, processed := scanner.Deliver(cls.ID, "not-a-student", "2024-02-01")
	assert.True(t, processed)
	assert.False(t, res.OK)
	assert.Equal(t, "", res.StudentName)
}

func TestScanner_Deliver_debounces(t *testing.T) {
	svc, cls, ana := setup(t)
	scanner := NewScanner(svc, 2*time.Second)

	start := time.Now()
	nowFunc = func() time.Time { return start }
	defer func() { nowFunc = time.Now }()

	// first frame checks in
	_, processed := scanner.Deliver(cls.ID, ana.ID, "2024-02-01")
	assert.True(t, processed)

	// consecutive frames of the same code are dropped while on display
	nowFunc = func() time.Time { return start.Add(500 * time.Millisecond) }
	_, processed = scanner.Deliver(cls.ID, ana.ID, "2024-02-01")
	assert.False(t, processed)

	// wipe the mark and replay within the window: still exactly one change
	assert.NoError(t, svc.SetAttendance(cls.ID, ana.ID, "2024-02-01", attendance.StatusAbsent))
	nowFunc = func() time.Time { return start.Add(1900 * time.Millisecond) }
	_, processed = scanner.Deliver(cls.ID, ana.ID, "2024-02-01")
	assert.False(t, processed)
	got, _ := svc.GetClass(cls.ID)
	assert.Equal(t, attendance.StatusAbsent, got.Students[0].ResolveStatus("2024-02-01"))

	// past the hold window deliveries flow again
	nowFunc = func() time.Time { return start.Add(2100 * time.Millisecond) }
	res, processed := scanner.Deliver(cls.ID, ana.ID, "2024-02-01")
	assert.True(t, processed)
	assert.True(t, res.OK)
}

type stubSource struct {
	codes []string
	err   error
}

func (s stubSource) Start(ctx context.Context, deliver func(string)) error {
	if s.err != nil {
		return s.err
	}
	for _, code := range s.codes {
		deliver(code)
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestScanner_Run(t *testing.T) {
	svc, cls, ana := setup(t)
	scanner := NewScanner(svc, 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	var results []Result
	onResult := func(res Result) {
		results = append(results, res)
		cancel()
	}

	// two rapid frames of the same code: one processed result
	err := scanner.Run(ctx, stubSource{codes: []string{ana.ID, ana.ID}}, cls.ID, "2024-02-01", onResult)
	assert.Equal(t, context.Canceled, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Ana", results[0].StudentName)
}

func TestScanner_Run_captureUnavailable(t *testing.T) {
	svc, cls, _ := setup(t)
	scanner := NewScanner(svc, 0)

	err := scanner.Run(context.Background(), stubSource{err: ErrCaptureUnavailable}, cls.ID, "2024-02-01", nil)
	assert.Equal(t, ErrCaptureUnavailable, err)
}
