package casper

import (
	"path/filepath"

	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// FileArgs is the file-arg service channel. It may only open, lstat,
// or realpath the absolute paths declared to the helper at init time
// (ordinarily the process's original argv); any other path is refused.
type FileArgs struct {
	sock    *descriptor.Socket
	allowed map[string]bool
}

// OpenFileArgs derives a file-arg service channel limited to exactly
// declaredPaths (the argument vector the helper was initialized with).
func (c *Channel) OpenFileArgs(declaredPaths []string) (*FileArgs, error) {
	sock, err := c.openService("file-arg")
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(declaredPaths))
	for _, p := range declaredPaths {
		allowed[filepath.Clean(p)] = true
	}
	return &FileArgs{sock: sock, allowed: allowed}, nil
}

func (fa *FileArgs) check(path string) (string, error) {
	clean := filepath.Clean(path)
	if !fa.allowed[clean] {
		return "", ferr.New(ferr.Permission, "file-arg", path)
	}
	return clean, nil
}

func (fa *FileArgs) Open(path string, flags descriptor.OpenFlag) (*descriptor.File, error) {
	clean, err := fa.check(path)
	if err != nil {
		return nil, err
	}
	_, err = request(fa.sock, append([]byte("FILEARG_OPEN:"), clean...))
	if err != nil {
		return nil, err
	}
	_, fds, err := fa.sock.RecvWithDescriptors(16, 1)
	if err != nil {
		return nil, err
	}
	if len(fds) != 1 {
		return nil, ferr.New(ferr.IO, "file-arg.open", clean)
	}
	return descriptor.AdoptFile(fds[0]), nil
}

func (fa *FileArgs) Lstat(path string) (descriptor.Stat, error) {
	clean, err := fa.check(path)
	if err != nil {
		return descriptor.Stat{}, err
	}
	_, err = request(fa.sock, append([]byte("FILEARG_LSTAT:"), clean...))
	if err != nil {
		return descriptor.Stat{}, err
	}
	return descriptor.Stat{}, nil
}

func (fa *FileArgs) Realpath(path string) (string, error) {
	clean, err := fa.check(path)
	if err != nil {
		return "", err
	}
	resp, err := request(fa.sock, append([]byte("FILEARG_REALPATH:"), clean...))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// Close releases the file-arg service's socket.
func (fa *FileArgs) Close() error { return fa.sock.Close() }
