package publish

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/inful/mdfp"
)

// fingerprint hashes the artifact body with the same scheme used for
// markdown content, so history rows can be compared across runs.
func fingerprint(data []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(data))
}

// writeFileAtomic writes data into dir/name through a temp file in dir and a
// rename. dir must already exist.
func writeFileAtomic(dir, name string, data []byte, mode fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(dir, ".docsite-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(mode.Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, name))
}
