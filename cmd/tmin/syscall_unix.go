//go:build linux || darwin || netbsd || solaris || openbsd || js || wasm
// +build linux darwin netbsd solaris openbsd js wasm

package main

import (
	"fmt"
	"os"
	"syscall"
)

const supportsOwnership = true

// copyOwnership gives dst the owner and group of src. Files that are already owned correctly are left alone, so that unprivileged runs do not fail on a no-op.
func copyOwnership(dst string, src os.FileInfo) error {
	stat, ok := src.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	uid, gid := int(stat.Uid), int(stat.Gid)

	info, err := os.Stat(dst)
	if err != nil {
		return err
	} else if dstStat, ok := info.Sys().(*syscall.Stat_t); ok && int(dstStat.Uid) == uid && int(dstStat.Gid) == gid {
		return nil
	}
	if err := os.Chown(dst, uid, gid); err != nil {
		return fmt.Errorf("preserve ownership: %w", err)
	}
	return nil
}
