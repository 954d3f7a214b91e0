// Command cdl is a thin driver around the compiler: it reads a source
// file, runs the pipeline, and prints or stores the canonical JSON.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cdl-lang/go-cdl/cdl"
	"github.com/cdl-lang/go-cdl/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "compile":
		err = compile(args)
	case "check":
		err = check(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cdl - constraint definition language compiler

Usage:
  cdl compile <file> [-db path]   compile and print canonical JSON
  cdl check <file>                parse and validate only`)
}

func compile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	dbPath := fs.String("db", "", "also save the unit to this SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("compile requires exactly one source file")
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	unit, err := cdl.Compile(string(src))
	if err != nil {
		return err
	}

	body, err := unit.MarshalCanonical()
	if err != nil {
		return err
	}
	fmt.Println(string(body))

	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		cid, err := db.Save(unit)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", cid)
	}
	return nil
}

func check(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("check requires exactly one source file")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	unit, err := cdl.Compile(string(src))
	if err != nil {
		return err
	}
	fmt.Printf("ok: %d constraints, %d templates\n", len(unit.Constraints), len(unit.Templates))
	return nil
}
