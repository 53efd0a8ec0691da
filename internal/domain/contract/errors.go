package contract

import "errors"

var (
	ErrContractNotFound       = errors.New("contract not found")
	ErrContractHasPayslips    = errors.New("contract cannot be deleted while payslips reference it")
	ErrContractEndBeforeStart = errors.New("contract end date is before start date")
)
