package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Writable(t *testing.T) {
	assert.True(t, StatusPresent.Writable())
	assert.True(t, StatusAbsent.Writable())
	assert.True(t, StatusJustified.Writable())
	assert.False(t, StatusPending.Writable())
	assert.False(t, Status("Atrasado").Writable())
}

func TestStudent_ResolveStatus(t *testing.T) {
	st := Student{
		Name: "Ana",
		Attendance: map[string]Status{
			"2024-02-01": StatusPresent,
			"2024-02-02": StatusAbsent,
			"2024-02-03": StatusJustified,
			"2024-02-04": StatusPending, // legacy explicit entry
		},
	}

	tests := []struct {
		date string
		want Status
	}{
		{"2024-02-01", StatusPresent},
		{"2024-02-02", StatusAbsent},
		{"2024-02-03", StatusJustified},
		{"2024-02-04", StatusPending},
		{"2024-02-05", StatusPending}, // no entry at all
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, st.ResolveStatus(tt.date))
		})
	}

	var empty Student // nil map reads are safe
	assert.Equal(t, StatusPending, empty.ResolveStatus("2024-02-01"))
}

func TestMarshalSchools_roundTrip(t *testing.T) {
	svc, store := newTestService()
	sch := addSchool(t, svc, "Escola Municipal")
	cls := addClass(t, svc, sch.ID, "Turma \"A\"")
	ana := addStudent(t, svc, cls.ID, "Ana")
	addStudent(t, svc, cls.ID, "Bob")
	assert.NoError(t, svc.SetAttendance(cls.ID, ana.ID, "2024-02-01", StatusPresent))
	assert.NoError(t, svc.SetAttendance(cls.ID, ana.ID, "2024-02-29", StatusJustified))
	addClass(t, svc, sch.ID, "Turma B")
	addSchool(t, svc, "Outra Escola")

	got, err := UnmarshalSchools(store.text)
	assert.NoError(t, err)
	assert.Equal(t, svc.Schools(), got)
}

func TestUnmarshalSchools(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "empty list", text: "[]"},
		{name: "not json", text: "{oops", wantErr: true},
		{name: "wrong shape", text: `{"a":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSchools(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUnmarshalSchools_scrubsLegacyPending(t *testing.T) {
	text := `[{"id":"s1","name":"Escola","classes":[{"id":"c1","name":"Turma","students":[` +
		`{"id":"a1","name":"Ana","attendance":{"2024-02-01":"Pendente","2024-02-02":"Presente"}},` +
		`{"id":"a2","name":"Bob","attendance":null}]}]}]`

	schools, err := UnmarshalSchools(text)
	assert.NoError(t, err)

	ana := schools[0].Classes[0].Students[0]
	_, hasLegacy := ana.Attendance["2024-02-01"]
	assert.False(t, hasLegacy, "explicit Pendente entries are dropped on load")
	assert.Equal(t, StatusPresent, ana.ResolveStatus("2024-02-02"))

	bob := schools[0].Classes[0].Students[1]
	assert.NotNil(t, bob.Attendance)

	// a save after the scrub no longer carries the legacy value
	out, err := MarshalSchools(schools)
	assert.NoError(t, err)
	assert.NotContains(t, out, "Pendente")
}
