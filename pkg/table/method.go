package table

import (
	"strings"

	"github.com/tabulaflow/tabula/pkg/errors"
)

// AccessMethod selects the strategy used to pull bounded data from the
// external storage service.
type AccessMethod string

const (
	// MethodDefault lets the provider choose its preferred read strategy
	MethodDefault AccessMethod = "DEFAULT"
	// MethodDirectRead streams rows straight from the table
	MethodDirectRead AccessMethod = "DIRECT_READ"
	// MethodExport extracts rows through a bulk export job
	MethodExport AccessMethod = "EXPORT"
)

// accessMethods is the closed set of recognized methods, keyed by their
// normalized names. Built once from the declared list; resolution never
// constructs methods outside this table.
var accessMethods = func() map[string]AccessMethod {
	m := make(map[string]AccessMethod)
	for _, v := range []AccessMethod{MethodDefault, MethodDirectRead, MethodExport} {
		m[string(v)] = v
	}
	return m
}()

// ValidAccessMethods returns the recognized method names in declared order.
func ValidAccessMethods() []string {
	return []string{string(MethodDefault), string(MethodDirectRead), string(MethodExport)}
}

// ResolveAccessMethod matches a user-supplied method name against the
// declared set, case-insensitively. On mismatch it returns a config error
// carrying the offending value and the full list of valid names; it never
// silently defaults. Absent input is the caller's concern, not the
// resolver's.
func ResolveAccessMethod(raw string) (AccessMethod, error) {
	if m, ok := accessMethods[strings.ToUpper(raw)]; ok {
		return m, nil
	}
	return "", errors.Newf(errors.ErrorTypeConfig,
		"invalid method %q; supported methods are: %s",
		raw, strings.Join(ValidAccessMethods(), ", "))
}
