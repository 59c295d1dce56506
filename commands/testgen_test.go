package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
}

func (s *sample) Marshal() ([]byte, error) {
	return []byte("bin:" + s.Name), nil
}

func TestTestGenCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "testgen")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "out")
	examples := []Example{
		{Filename: "first", Obj: &sample{Name: "one"}},
		{Filename: "second", Obj: &sample{Name: "two"}},
	}
	require.NoError(t, TestGenCmd(examples, []string{out}))

	js, err := ioutil.ReadFile(filepath.Join(out, "first.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"name": "one"}`, string(js))

	bin, err := ioutil.ReadFile(filepath.Join(out, "second.bin"))
	require.NoError(t, err)
	require.Equal(t, "bin:two", string(bin))
}
