package main

import "fmt"

func (cli *commandLine) importRoster(classID, path string) error {
	data, err := readFileFunc(path)
	if err != nil {
		return err
	}

	added, err := cli.attSvc.BulkAddStudents(classID, string(data))
	if err != nil {
		return err
	}
	fmt.Printf("imported %d student(s)\n", len(added))
	return nil
}
