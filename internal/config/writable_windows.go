//go:build windows

package config

import "os"

// Windows ACLs are not reflected in mode bits, so probe with a temp file.
func isWritableDir(dir string) bool {
	f, err := os.CreateTemp(dir, ".filefilter-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
