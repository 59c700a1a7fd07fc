package main

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/ericardos/chamada-escolar/core"
	"github.com/ericardos/chamada-escolar/core/attendance"
	"github.com/ericardos/chamada-escolar/storage/localstore"
)

func setup(t *testing.T) (*commandLine, attendance.Class) {
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	svc := attendance.NewService(localstore.NewMemStore(), attendance.NewSeqIDGenerator(), logger)

	sch, err := svc.AddSchool("Escola Municipal")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	cls, err := svc.AddClass(sch.ID, "Turma A")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return &commandLine{attSvc: svc}, cls
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func Test_commandLine_importRoster(t *testing.T) {
	cli, cls := setup(t)

	readFileFunc = func(path string) ([]byte, error) {
		if path == "roster.txt" {
			return []byte("Ana\nBruno\n\nCarla\n"), nil
		}
		return nil, os.ErrNotExist
	}
	defer func() { readFileFunc = os.ReadFile }()

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"import"}, wantErr: errHelp},
		{name: "class but no file", args: []string{"import", "-class", cls.ID}, wantErr: errHelp},
		{name: "missing file", args: []string{"import", "-class", cls.ID, "-file", "nope.txt"}, wantErr: os.ErrNotExist},
		{name: "unknown class", args: []string{"import", "-class", "nope", "-file", "roster.txt"}, wantErr: attendance.ErrClassNotFound},
		{name: "roster imported", args: []string{"import", "-class", cls.ID, "-file", "roster.txt"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	got, err := cli.attSvc.GetClass(cls.ID)
	if err != nil {
		t.Fatalf("GetClass() failed: %v", err)
	}
	if len(got.Students) != 3 {
		t.Errorf("imported students = %d, want 3", len(got.Students))
	}
}

func Test_commandLine_exportReport(t *testing.T) {
	cli, cls := setup(t)

	var wrotePath string
	var wroteData []byte
	writeFileFunc = func(path string, data []byte, perm os.FileMode) error {
		wrotePath = path
		wroteData = data
		return nil
	}
	defer func() { writeFileFunc = os.WriteFile }()

	tests := []cliTest{
		{name: "no class", args: []string{"export"}, wantErr: errHelp},
		{name: "month out of range", args: []string{"export", "-class", cls.ID, "-month", "13"}, wantErr: errHelp},
		{name: "unknown class", args: []string{"export", "-class", "nope"}, wantErr: attendance.ErrClassNotFound},
		{name: "sheet written", args: []string{"export", "-class", cls.ID, "-year", "2024", "-month", "2", "-out", "/tmp"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if wrotePath != "/tmp/Frequencia_Turma_A_FEVEREIRO_2024.csv" {
		t.Errorf("wrote path = %s", wrotePath)
	}
	if !bytes.Contains(wroteData, []byte("CONTROLE DE FREQUÊNCIA")) {
		t.Error("sheet is missing its title line")
	}
}

func Test_commandLine_generateQRCodes(t *testing.T) {
	cli, cls := setup(t)
	if _, err := cli.attSvc.AddStudent(cls.ID, "Ana Maria"); err != nil {
		t.Fatalf("AddStudent() failed: %v", err)
	}

	var wrotePaths []string
	writeFileFunc = func(path string, data []byte, perm os.FileMode) error {
		if !bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
			t.Errorf("data written to %s is not a PNG", path)
		}
		wrotePaths = append(wrotePaths, path)
		return nil
	}
	defer func() { writeFileFunc = os.WriteFile }()

	tests := []cliTest{
		{name: "no class", args: []string{"qrcodes"}, wantErr: errHelp},
		{name: "unknown class", args: []string{"qrcodes", "-class", "nope"}, wantErr: attendance.ErrClassNotFound},
		{name: "codes written", args: []string{"qrcodes", "-class", cls.ID, "-out", "/tmp"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if len(wrotePaths) != 1 || wrotePaths[0] != "/tmp/Ana_Maria.png" {
		t.Errorf("wrote paths = %v", wrotePaths)
	}
}
