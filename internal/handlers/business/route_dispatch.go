package business

import (
	"context"
	"fmt"

	"launchcontrol/pkg/execution"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RouteAccruedFees resolves the mint's routing mode and, for plain
// transfer destinations, executes the transfer of the accrued amount.
// Pool-relative modes (add-liquidity, swap-then-burn) are returned to the
// caller as the instruction to request from the execution service; the
// router's job ends at choosing the operation.
func RouteAccruedFees(ctx context.Context, db *gorm.DB, exec *execution.Client, mint string, amount int64) (RouteInstruction, string, error) {
	mode, err := LoadRouteMode(db, mint)
	if err != nil {
		return RouteInstruction{}, "", err
	}

	instruction, err := ResolveRoute(mode, mint)
	if err != nil {
		return RouteInstruction{}, "", err
	}

	if instruction.Op != RouteOpTransfer || amount == 0 {
		return instruction, "", nil
	}

	resp, err := exec.Transfer(ctx, execution.TransferRequest{
		From:   treasuryWallet(),
		To:     instruction.Destination,
		Amount: amount,
	})
	if err != nil {
		return instruction, "", fmt.Errorf("%w: route transfer: %v", ErrExecutionFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"mint":        mint,
		"mode":        mode.Name(),
		"destination": instruction.Destination,
		"amount":      amount,
	}).Info("Routed accrued fees")

	return instruction, resp.OpRef, nil
}
