package business

import (
	"errors"
	"fmt"
)

// Sentinel errors for the bonding lifecycle. Handlers map these onto HTTP
// status codes: identity conflicts and closed bonding are caller errors,
// tier table and payout wallet problems are operator configuration errors,
// execution failures are transient and retryable.
var (
	ErrInvalidTierTable    = errors.New("fee tier table is invalid")
	ErrNoTierMatched       = errors.New("no fee tier matched market cap")
	ErrMissingPayoutWallet = errors.New("routing mode send_to_wallet requires a payout wallet")
	ErrAlreadyComplete     = errors.New("bonding already complete")
	ErrBondingClosed       = errors.New("bonding is not active for this token")
	ErrNotFinalizing       = errors.New("token is not in finalizing state")
	ErrExecutionFailed     = errors.New("execution service request failed")
)

// IdentityTakenError reports a one-launch-only conflict and carries the
// mint that already owns the name+ticker pair.
type IdentityTakenError struct {
	Name         string
	Ticker       string
	ExistingMint string
}

func (e *IdentityTakenError) Error() string {
	return fmt.Sprintf("token %q (%s) already exists as mint %s", e.Name, e.Ticker, e.ExistingMint)
}

// TradeSettledClosedError reports a swap that confirmed on-chain but
// whose bookkeeping was refused because the bonding state left active
// between the status pre-check and the ledger write. The swap stands;
// TxRef lets operators reconcile it against the finalized pool.
type TradeSettledClosedError struct {
	Mint  string
	TxRef string
}

func (e *TradeSettledClosedError) Error() string {
	return fmt.Sprintf("trade %s on mint %s settled after bonding closed", e.TxRef, e.Mint)
}

func (e *TradeSettledClosedError) Unwrap() error { return ErrBondingClosed }
