package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ericardos/chamada-escolar/core/attendance"
)

var (
	readFileFunc  = os.ReadFile  // mockable
	writeFileFunc = os.WriteFile // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	attSvc *attendance.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  import -class CLASSID -file PATH - import a student roster, one name per line")
	fmt.Println("  export -class CLASSID [-year YYYY] [-month 1-12] [-school] [-out DIR] - export the monthly attendance sheet")
	fmt.Println("  qrcodes -class CLASSID [-out DIR] - generate per-student check-in QR codes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	now := time.Now()

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importClass := importCmd.String("class", "", "The class ID to import into.")
	importFile := importCmd.String("file", "", "Path of the roster file, one student name per line.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportClass := exportCmd.String("class", "", "The class ID to export.")
	exportYear := exportCmd.Int("year", now.Year(), "Report year.")
	exportMonth := exportCmd.Int("month", int(now.Month()), "Report month (1-12).")
	exportSchool := exportCmd.Bool("school", false, "Use the school-scoped sheet layout.")
	exportOut := exportCmd.String("out", ".", "Output directory.")

	qrCmd := flag.NewFlagSet("qrcodes", flag.ExitOnError)
	qrClass := qrCmd.String("class", "", "The class ID to generate codes for.")
	qrOut := qrCmd.String("out", ".", "Output directory.")

	switch args[1] {
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importClass == "" || *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importRoster(*importClass, *importFile)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportClass == "" {
			exportCmd.Usage()
			return errHelp
		}
		if *exportMonth < 1 || *exportMonth > 12 {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportReport(*exportClass, *exportYear, time.Month(*exportMonth), *exportSchool, *exportOut)
	case "qrcodes":
		if err := qrCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *qrClass == "" {
			qrCmd.Usage()
			return errHelp
		}
		return cli.generateQRCodes(*qrClass, *qrOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
