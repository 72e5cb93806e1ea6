package ledger

import "context"

// Source is the port for the external ledger store. The first row returned
// is the header row; column positions are resolved by header name.
type Source interface {
	GetAllRows(ctx context.Context) ([][]string, error)
}
