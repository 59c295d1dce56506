package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Example is an object written out as <Filename>.json and <Filename>.bin.
// Filename should have no path and no extension.
type Example struct {
	Filename string
	Obj      msig.Marshaller
}

// TestGenCmd writes the json and the binary encoding of every example
// into the directory given as first argument, "testdata" by default.
// Clients use the files to check their encoders against the node.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}
	for _, ex := range examples {
		if err := writeExample(outdir, ex); err != nil {
			return errors.Wrap(err, ex.Filename)
		}
	}
	return nil
}

func writeExample(dir string, ex Example) error {
	js, err := json.MarshalIndent(ex.Obj, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(filepath.Join(dir, ex.Filename+".json"), js, 0644); err != nil {
		return err
	}
	bin, err := ex.Obj.Marshal()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(dir, ex.Filename+".bin"), bin, 0644)
}
