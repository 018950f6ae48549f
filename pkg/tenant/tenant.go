package tenant

import "github.com/bwmarrin/snowflake"

// Context identifies the company (and optional branch) every core operation
// acts on. It is passed explicitly; core packages never read it from
// request-scoped ambient state.
type Context struct {
	CompanyID snowflake.ID
	BranchID  snowflake.ID
}

// Valid reports whether a company is set.
func (t Context) Valid() bool {
	return t.CompanyID != 0
}
