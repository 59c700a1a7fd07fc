// Package qrsvc renders student identifiers as scannable QR graphics.
// The encoded payload is the raw student id, verbatim; whoever scans it is
// checked in as that student (see attendance.Service.CheckIn).
package qrsvc

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ericardos/chamada-escolar/core"
	"github.com/ericardos/chamada-escolar/core/attendance"
)

const defaultSize = 256 // px

// Result is one student's rendered code. Err is set per item so a single
// failure never aborts the rest of a batch.
type Result struct {
	StudentID   string
	StudentName string
	Filename    string
	PNG         []byte
	Err         error
}

type Service struct {
	size int
}

func NewService() *Service {
	return &Service{size: defaultSize}
}

// GenerateOne renders the student's id at the High error-correction tier,
// so printed codes survive wear. The suggested download name is the
// student's name with whitespace collapsed to underscores.
func (svc *Service) GenerateOne(st attendance.Student) Result {
	res := Result{
		StudentID:   st.ID,
		StudentName: st.Name,
		Filename:    core.Underscore(st.Name) + ".png",
	}
	res.PNG, res.Err = qrcode.Encode(st.ID, qrcode.High, svc.size)
	return res
}

// Generate renders a code for every student of a roster.
func (svc *Service) Generate(students []attendance.Student) []Result {
	results := make([]Result, len(students))
	for i, st := range students {
		results[i] = svc.GenerateOne(st)
	}
	return results
}
