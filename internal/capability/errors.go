package capability

import (
	"errors"
	"fmt"
)

// ErrEmptyRoleSet indicates a principal with no granted roles reached a
// resolver. Callers fail closed: deny, redirect to login, never substitute a
// permissive default.
var ErrEmptyRoleSet = errors.New("capability: empty role set")

// ErrUnknownRole indicates a granted role that is not part of the loaded
// hierarchy. Treated like an empty role set: fail closed.
var ErrUnknownRole = errors.New("capability: unknown role")

// ConfigurationError reports an invalid registry table set. It is fatal at
// load time; the process must not serve with a broken policy table.
type ConfigurationError struct {
	Table  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("capability: invalid %s table: %s", e.Table, e.Detail)
}

func configErr(table, format string, args ...any) error {
	return &ConfigurationError{Table: table, Detail: fmt.Sprintf(format, args...)}
}
