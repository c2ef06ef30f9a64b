//go:build !freebsd

package acl

import "github.com/freebsdkit/capkit/ferr"

func notSupported(op string) error { return ferr.New(ferr.NotSupported, op, "") }

func sysAclGetFile(path string, typ Type) (*ACL, error) { return nil, notSupported("__acl_get_file") }
func sysAclSetFile(path string, typ Type, a *ACL) error { return notSupported("__acl_set_file") }
func sysAclDeleteFile(path string, typ Type) error      { return notSupported("__acl_delete_file") }

func sysAclGetLink(path string, typ Type) (*ACL, error) { return nil, notSupported("__acl_get_link") }
func sysAclSetLink(path string, typ Type, a *ACL) error { return notSupported("__acl_set_link") }
func sysAclDeleteLink(path string, typ Type) error      { return notSupported("__acl_delete_link") }

func sysAclGetFd(fd int, typ Type) (*ACL, error) { return nil, notSupported("__acl_get_fd") }
func sysAclSetFd(fd int, typ Type, a *ACL) error { return notSupported("__acl_set_fd") }
func sysAclDeleteFd(fd int, typ Type) error      { return notSupported("__acl_delete_fd") }
