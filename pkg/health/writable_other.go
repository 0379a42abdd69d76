//go:build !unix

package health

import "os"

func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".botprobe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
