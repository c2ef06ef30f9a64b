package casper

import (
	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// IdentityCommand and IdentityField narrow a password-db/group-db
// channel's allowed operations and returned columns.
type IdentityCommand uint8
type IdentityField uint8

const (
	CmdGetByName IdentityCommand = 1 << iota
	CmdGetById
	CmdEnumerate
)

const (
	FieldName IdentityField = 1 << iota
	FieldId
	FieldGecos
	FieldHomeDir
	FieldShell
)

// Identity is shared by Passwd and Grp: both are a principal lookup
// service narrowed by allowed commands, fields and principals.
type Identity struct {
	sock       *descriptor.Socket
	service    string
	commands   IdentityCommand
	fields     IdentityField
	principals map[string]bool // name or numeric-id string; nil means "all"
}

func (c *Channel) openIdentity(service string) (*Identity, error) {
	sock, err := c.openService(service)
	if err != nil {
		return nil, err
	}
	return &Identity{
		sock:     sock,
		service:  service,
		commands: CmdGetByName | CmdGetById | CmdEnumerate,
		fields:   FieldName | FieldId | FieldGecos | FieldHomeDir | FieldShell,
	}, nil
}

// OpenPasswd derives the password-db service channel.
func (c *Channel) OpenPasswd() (*Identity, error) { return c.openIdentity("password-db") }

// OpenGrp derives the group-db service channel.
func (c *Channel) OpenGrp() (*Identity, error) { return c.openIdentity("group-db") }

func (id *Identity) LimitCommands(cmds IdentityCommand) error {
	if cmds&^id.commands != 0 {
		return ferr.New(ferr.PermissionNarrowed, id.service+".limit_commands", "")
	}
	id.commands = cmds
	return nil
}

func (id *Identity) LimitFields(fields IdentityField) error {
	if fields&^id.fields != 0 {
		return ferr.New(ferr.PermissionNarrowed, id.service+".limit_fields", "")
	}
	id.fields = fields
	return nil
}

// LimitPrincipals restricts lookups to the given set of names/ids. Once
// narrowed (non-nil), it can only shrink.
func (id *Identity) LimitPrincipals(principals []string) error {
	if id.principals != nil {
		for _, p := range principals {
			if !id.principals[p] {
				return ferr.New(ferr.PermissionNarrowed, id.service+".limit_principals", p)
			}
		}
	}
	next := make(map[string]bool, len(principals))
	for _, p := range principals {
		next[p] = true
	}
	id.principals = next
	return nil
}

func (id *Identity) allowedPrincipal(p string) bool {
	return id.principals == nil || id.principals[p]
}

func (id *Identity) GetByName(name string) (string, error) {
	if id.commands&CmdGetByName == 0 || !id.allowedPrincipal(name) {
		return "", ferr.New(ferr.Permission, id.service+".get_by_name", name)
	}
	resp, err := request(id.sock, append([]byte(id.service+":BYNAME:"), name...))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

func (id *Identity) GetById(principalId string) (string, error) {
	if id.commands&CmdGetById == 0 || !id.allowedPrincipal(principalId) {
		return "", ferr.New(ferr.Permission, id.service+".get_by_id", principalId)
	}
	resp, err := request(id.sock, append([]byte(id.service+":BYID:"), principalId...))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// Close releases the identity service's socket.
func (id *Identity) Close() error { return id.sock.Close() }
