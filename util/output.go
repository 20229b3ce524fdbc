package util

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteJSON writes data as indented json. The file is written to a
// temporary name in the same directory and renamed into place, so readers
// never see a partial report.
func WriteJSON(fn string, data interface{}) error {
	out, err := json.MarshalIndent(data, "", "   ")
	if err != nil {
		return errors.Wrap(err, "problem encoding data")
	}

	return errors.WithStack(writeAtomic(fn, append(out, '\n')))
}

// WriteString writes data to fn with a trailing newline, replacing the
// file atomically.
func WriteString(fn string, data string) error {
	return errors.WithStack(writeAtomic(fn, []byte(data+"\n")))
}

func PrintJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "   ")
	if err != nil {
		return errors.Wrap(err, "problem encoding data")
	}

	fmt.Println(string(out))
	return nil
}

func writeAtomic(fn string, data []byte) error {
	f, err := ioutil.TempFile(filepath.Dir(fn), "."+filepath.Base(fn)+".tmp")
	if err != nil {
		return errors.WithStack(err)
	}
	tmp := f.Name()

	if _, err = f.Write(data); err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "problem writing '%s'", fn)
	}

	if err = os.Rename(tmp, fn); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "problem moving report into place at '%s'", fn)
	}

	return nil
}
