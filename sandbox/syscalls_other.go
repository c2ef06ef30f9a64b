//go:build !freebsd

package sandbox

import "github.com/freebsdkit/capkit/ferr"

func sysCapEnter() error { return ferr.New(ferr.NotSupported, "cap_enter", "") }

func sysCapGetMode() (bool, error) { return false, nil }
