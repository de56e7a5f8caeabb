//go:build !linux && !darwin && !netbsd && !solaris && !openbsd && !js && !wasm
// +build !linux,!darwin,!netbsd,!solaris,!openbsd,!js,!wasm

package main

import (
	"errors"
	"os"
)

const supportsOwnership = false

var errOwnership = errors.New("preserve ownership not supported on platform")

func copyOwnership(dst string, src os.FileInfo) error {
	return errOwnership
}
