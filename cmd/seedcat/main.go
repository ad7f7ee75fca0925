// seedcat is a tool for reviewing the failing candidates persisted by a
// gosm seed store. It can list the stored test cases, print the encoded
// candidate of a test, export it to a file, and remove entries, e.g. after
// the underlying bug has been fixed.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"gosm/seedstore"
)

var (
	app      = kingpin.New("seedcat", "Utility for reviewing persisted failing state-machine test cases.")
	storeDir = app.Flag("store", "Path to the seed store directory.").Required().String()

	listCmd = app.Command("list", "List the stored failing test cases.")

	showCmd  = app.Command("show", "Print the stored failing candidate of a test.")
	showName = showCmd.Arg("test", "Name of the test.").Required().String()

	exportCmd  = app.Command("export", "Write the stored failing candidate of a test to a file.")
	exportName = exportCmd.Arg("test", "Name of the test.").Required().String()
	exportOut  = exportCmd.Flag("out", "Output file.").Required().String()

	rmCmd  = app.Command("rm", "Remove the stored failing candidate of a test.")
	rmName = rmCmd.Arg("test", "Name of the test.").Required().String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	store, err := seedstore.Open(*storeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch cmd {
	case listCmd.FullCommand():
		err = list(store)
	case showCmd.FullCommand():
		err = show(store, *showName)
	case exportCmd.FullCommand():
		err = export(store, *exportName, *exportOut)
	case rmCmd.FullCommand():
		err = store.Delete(*rmName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func list(store *seedstore.Store) error {
	wrt := tabwriter.NewWriter(os.Stdout, 4, 4, 2, ' ', 0)
	fmt.Fprintf(wrt, "TEST\tSIZE \n")
	err := store.List(func(test string, data []byte) error {
		fmt.Fprintf(wrt, "%v\t%v \n", test, len(data))
		return nil
	})
	if err != nil {
		return err
	}
	return wrt.Flush()
}

func show(store *seedstore.Store, test string) error {
	data, err := store.Get(test)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func export(store *seedstore.Store, test, out string) error {
	data, err := store.Get(test)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return errors.WithMessagef(err, "could not write %v", out)
	}
	return nil
}
