package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/edusight/dropwatch/core"
	"github.com/edusight/dropwatch/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp      = errors.New("help provided")
	errEmptyName = errors.New("-name is required")
)

type commandLine struct {
	repo      student.Repository
	predictor student.RiskPredictor
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  hashpassword - print a bcrypt hash for the operator password (prompted)")
	fmt.Println("  addstudent -id ID -name NAME [-attendance PCT] [-marks PCT] [-fee STATUS] [-financial LEVEL] - append a student and print the predicted risk")
	fmt.Println("  delstudent -name NAME - remove all students matching NAME")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addID := addCmd.Int("id", 0, "The student ID. Not required to be unique.")
	addName := addCmd.String("name", "", "The student name.")
	addAttendance := addCmd.Float64("attendance", 0, "Attendance percentage [0,100].")
	addMarks := addCmd.Float64("marks", 0, "Marks percentage [0,100].")
	addFee := addCmd.String("fee", student.DefaultFeeStatus, "Fee status.")
	addFinancial := addCmd.String("financial", student.DefaultFinancialDifficulty, "Financial difficulty.")

	delCmd := flag.NewFlagSet("delstudent", flag.ExitOnError)
	delName := delCmd.String("name", "", "The student name. All matching records are removed.")

	switch args[1] {
	case "hashpassword":
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			return errHelp
		}
		return cli.hashPassword(string(pwd))
	case "addstudent":
		if err := addCmd.Parse(args[2:]); err != nil {
			return err
		}
		if core.CleanString(*addName) == "" {
			addCmd.Usage()
			return errEmptyName
		}
		return cli.addStudent(student.Student{
			ID:                  *addID,
			Name:                core.CleanString(*addName),
			Attendance:          *addAttendance,
			Marks:               *addMarks,
			FeeStatus:           core.CleanString(*addFee),
			FinancialDifficulty: core.CleanString(*addFinancial),
		})
	case "delstudent":
		if err := delCmd.Parse(args[2:]); err != nil {
			return err
		}
		if core.CleanString(*delName) == "" {
			delCmd.Usage()
			return errEmptyName
		}
		return cli.delStudent(core.CleanString(*delName))
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) hashPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Printf("set <ENV>_OPERATORPASSWORDHASH to:\n%s\n", hash)
	return nil
}

func (cli *commandLine) addStudent(s student.Student) error {
	res := cli.predictor.Predict(s.Attendance, s.Marks, s.FeeStatus, s.FinancialDifficulty)
	if err := cli.repo.Append(s); err != nil {
		return err
	}
	fmt.Printf("added %q (ID %d) - predicted risk: %s\n", s.Name, s.ID, res.Label)
	return nil
}

func (cli *commandLine) delStudent(name string) error {
	if err := cli.repo.DeleteByName(name); err != nil {
		return err
	}
	fmt.Printf("removed all students named %q\n", name)
	return nil
}
