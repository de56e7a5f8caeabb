//go:build !linux && !darwin && !netbsd && !solaris && !openbsd
// +build !linux,!darwin,!netbsd,!solaris,!openbsd

package oracle

import "os"

func killSelf() {
	os.Exit(2)
}
