package document

import (
	"errors"
	"io/fs"
	"os"
)

// withTempFile writes data to a fresh file in dir, hands its path to fn and
// removes the file afterwards, whichever way fn returns. A failure to
// create, write or remove the file is reported as KindIOFailure.
func withTempFile(dir, ext string, data []byte, fn func(path string) error) (err error) {
	f, err := os.CreateTemp(dir, "fastreed-*"+ext)
	if err != nil {
		return newError(KindIOFailure, "failed to create temporary file", err)
	}
	path := f.Name()

	defer func() {
		rmErr := os.Remove(path)
		if rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = newError(KindIOFailure, "failed to remove temporary file", rmErr)
		}
	}()

	if _, werr := f.Write(data); werr != nil {
		f.Close()
		return newError(KindIOFailure, "failed to write temporary file", werr)
	}
	if cerr := f.Close(); cerr != nil {
		return newError(KindIOFailure, "failed to close temporary file", cerr)
	}

	return fn(path)
}
