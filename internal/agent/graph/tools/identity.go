package tools

import (
	"context"

	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// resolveCustomerID maps a caller-supplied email to the internal customer
// id. This lookup is the authorization anchor: every data-returning tool
// calls it first and scopes all subsequent queries to the resolved id.
// An unknown email is not an error; the caller returns a structured empty
// result instead of broadening scope.
func (d Deps) resolveCustomerID(ctx context.Context, email string) (int64, bool, error) {
	row, err := d.DB.QueryOne(ctx,
		"SELECT CustomerID FROM Agent_Data.Customers WHERE Email = ?", email)
	if err != nil {
		return 0, false, err
	}
	if row == nil {
		logx.Debug().Str("email", email).Msg("email did not resolve to a customer")
		return 0, false, nil
	}
	id, ok := row["CustomerID"]
	if !ok {
		return 0, false, nil
	}
	return asInt64(id), true, nil
}
