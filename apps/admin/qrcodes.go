package main

import (
	"fmt"
	"path/filepath"

	qrsvc "github.com/ericardos/chamada-escolar/services/qr"
)

func (cli *commandLine) generateQRCodes(classID, outDir string) error {
	cls, err := cli.attSvc.GetClass(classID)
	if err != nil {
		return err
	}

	svc := qrsvc.NewService()
	for _, res := range svc.Generate(cls.Students) {
		if res.Err != nil {
			return res.Err
		}
		path := filepath.Join(outDir, res.Filename)
		if err := writeFileFunc(path, res.PNG, 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
