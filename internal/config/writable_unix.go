//go:build !windows

package config

import "golang.org/x/sys/unix"

func isWritableDir(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
