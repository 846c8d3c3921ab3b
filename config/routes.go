package config

// Bird operations that can be exposed over HTTP.
const (
	OpList    = "list"
	OpShow    = "show"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDestroy = "destroy"
	OpLike    = "like"
)

var operations = []string{OpList, OpShow, OpCreate, OpUpdate, OpDestroy, OpLike}

// Routes selects which bird operations the router registers. The store supports
// all of them either way.
type Routes struct {
	Enabled []string `json:"enabled" yaml:"enabled"`
}

// AllOperations returns a fresh slice with every operation.
func AllOperations() []string {
	return append([]string(nil), operations...)
}

func IsOperation(op string) bool {
	for _, o := range operations {
		if o == op {
			return true
		}
	}
	return false
}

// IsEnabled reports whether op is routed. A nil Routes enables everything.
func (r *Routes) IsEnabled(op string) bool {
	if r == nil {
		return IsOperation(op)
	}
	for _, o := range r.Enabled {
		if o == op {
			return true
		}
	}
	return false
}
