//go:build !freebsd

package mac

import "github.com/freebsdkit/capkit/ferr"

type fdOwner interface {
	Fd() int
}

func notSupported(op string) error { return ferr.New(ferr.NotSupported, op, "") }

func getxattrPath(path, name string, buf []byte) (int, error) {
	return 0, notSupported("extattr_get_file")
}
func setxattrPath(path, name string, value []byte) error { return notSupported("extattr_set_file") }
func removexattrPath(path, name string) error            { return notSupported("extattr_delete_file") }

func getxattrFd(d fdOwner, name string, buf []byte) (int, error) {
	return 0, notSupported("extattr_get_fd")
}
func setxattrFd(d fdOwner, name string, value []byte) error { return notSupported("extattr_set_fd") }
func removexattrFd(d fdOwner, name string) error            { return notSupported("extattr_delete_fd") }
