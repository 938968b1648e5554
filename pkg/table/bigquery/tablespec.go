package bigquery

import (
	"fmt"
	"strings"

	"github.com/tabulaflow/tabula/pkg/errors"
)

// TableSpec identifies a BigQuery table. The canonical form is
// "project:dataset.table"; the query-style "project.dataset.table" is also
// accepted. This provider owns the location format; the connector core never
// parses it.
type TableSpec struct {
	Project string
	Dataset string
	Table   string
}

// String renders the canonical "project:dataset.table" form
func (s TableSpec) String() string {
	return fmt.Sprintf("%s:%s.%s", s.Project, s.Dataset, s.Table)
}

// QualifiedName renders the backtick-quoted form used inside SQL
func (s TableSpec) QualifiedName() string {
	return fmt.Sprintf("`%s.%s.%s`", s.Project, s.Dataset, s.Table)
}

// ParseTableSpec parses a location string into its project, dataset, and
// table components.
func ParseTableSpec(location string) (TableSpec, error) {
	var project, rest string

	// Domain-scoped projects ("google.com:proj") carry their own colon, so
	// split on the last one.
	if i := strings.LastIndexByte(location, ':'); i >= 0 {
		project, rest = location[:i], location[i+1:]
	} else {
		parts := strings.SplitN(location, ".", 2)
		if len(parts) != 2 {
			return TableSpec{}, errors.Newf(errors.ErrorTypeConfig, "invalid table location %q", location)
		}
		project, rest = parts[0], parts[1]
	}

	parts := strings.Split(rest, ".")
	if len(parts) != 2 || project == "" || parts[0] == "" || parts[1] == "" {
		return TableSpec{}, errors.Newf(errors.ErrorTypeConfig,
			"invalid table location %q; expected project:dataset.table", location)
	}

	return TableSpec{Project: project, Dataset: parts[0], Table: parts[1]}, nil
}
