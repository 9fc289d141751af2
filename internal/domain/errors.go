// internal/domain/errors.go
package domain

import "fmt"

// QueryErrorKind distinguishes the failure categories of a vault list fetch
type QueryErrorKind string

const (
	QueryTransport      QueryErrorKind = "transport"       // network error or non-2xx status
	QueryRemote         QueryErrorKind = "remote"          // GraphQL errors array present
	QuerySchemaMismatch QueryErrorKind = "schema_mismatch" // response has no data field
)

// QueryError is a vault list fetch failure. Callers can branch on Kind via
// errors.As while the rendered message keeps the original cause text.
type QueryError struct {
	Kind    QueryErrorKind
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch vaults: %v", e.Err)
	}
	return fmt.Sprintf("failed to fetch vaults: %s", e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// TransactionStage marks where in the deposit flow a failure happened
type TransactionStage string

const (
	StageAddressResolution TransactionStage = "address_resolution"
	StageSubmission        TransactionStage = "submission"
	StageConfirmation      TransactionStage = "confirmation"
)

// TransactionError is a deposit failure at a specific stage
type TransactionError struct {
	Stage TransactionStage
	Err   error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("deposit failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
