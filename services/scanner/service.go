// Package scansvc is the scan/capture bridge: it receives decoded
// identifier strings from a capture source and forwards them to the
// attendance check-in, debouncing consecutive frames of the same code.
package scansvc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericardos/chamada-escolar/core/attendance"
)

// ErrCaptureUnavailable is reported when no capture device could be started.
var ErrCaptureUnavailable = errors.New("capture device unavailable")

var nowFunc = time.Now // mockable

type (
	// Source delivers decoded identifier strings on its own schedule.
	// Implementations must try a rear-facing capture device first, fall back
	// to a front-facing one, and return ErrCaptureUnavailable when neither
	// starts. Start blocks until ctx is done or the source fails.
	Source interface {
		Start(ctx context.Context, deliver func(decoded string)) error
	}

	// Result is the outcome of one processed delivery: the resolved student
	// name on success, OK=false for an unrecognized code.
	Result struct {
		StudentName string `json:"student_name,omitempty"`
		OK          bool   `json:"ok"`
	}

	// Scanner debounces deliveries: each processed delivery starts a hold
	// window (the time its result stays on display) during which further
	// deliveries are dropped, so one physical code held in front of the
	// camera cannot check in twice.
	Scanner struct {
		mu        sync.Mutex
		svc       *attendance.Service
		hold      time.Duration
		heldUntil time.Time
	}
)

func NewScanner(svc *attendance.Service, hold time.Duration) *Scanner {
	return &Scanner{svc: svc, hold: hold}
}

// Deliver processes one decoded identifier for the class and date.
// The second return is false when the delivery was dropped by the debounce;
// nothing was looked up or mutated in that case.
func (s *Scanner) Deliver(classID, decoded, date string) (Result, bool) {
	s.mu.Lock()
	now := nowFunc()
	if now.Before(s.heldUntil) {
		s.mu.Unlock()
		return Result{}, false
	}
	s.heldUntil = now.Add(s.hold)
	s.mu.Unlock()

	name, err := s.svc.CheckIn(classID, decoded, date)
	if err != nil {
		return Result{}, true
	}
	return Result{StudentName: name, OK: true}, true
}

// Run pumps the source into Deliver until ctx is done or the source fails.
// onResult is called for every processed (non-dropped) delivery.
func (s *Scanner) Run(ctx context.Context, src Source, classID, date string, onResult func(Result)) error {
	return src.Start(ctx, func(decoded string) {
		if res, processed := s.Deliver(classID, decoded, date); processed && onResult != nil {
			onResult(res)
		}
	})
}
