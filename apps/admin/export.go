package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ericardos/chamada-escolar/core/attendance"
)

func (cli *commandLine) exportReport(classID string, year int, month time.Month, schoolScope bool, outDir string) error {
	cls, sch, err := cli.attSvc.GetClassSchool(classID)
	if err != nil {
		return err
	}

	variant := attendance.VariantClass
	if schoolScope {
		variant = attendance.VariantSchool
	}
	report := attendance.BuildMonthlyReport(cls, sch.Name, year, month, variant)

	path := filepath.Join(outDir, report.Filename)
	if err := writeFileFunc(path, []byte(report.Content), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
