// internal/morpho/client.go
package morpho

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"morpho-service/internal/domain"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// TxSender is the externally supplied signing capability. It owns key
// material, nonce management and any serialization of concurrent submissions;
// this package only composes calldata and interprets receipts.
type TxSender interface {
	// Address returns the sender's own address
	Address(ctx context.Context) (common.Address, error)

	// SendTransaction signs and submits a contract call and returns the
	// pending transaction handle
	SendTransaction(ctx context.Context, to common.Address, calldata []byte) (*types.Transaction, error)

	// WaitMined blocks until the transaction is included in a block and
	// returns the receipt with its emitted logs
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// marketParamsTuple matches the marketParams component layout of the supply call
type marketParamsTuple struct {
	LoanToken       common.Address
	CollateralToken common.Address
	Oracle          common.Address
	Irm             common.Address
	Lltv            *big.Int
}

// Client submits supply transactions to a deployed Morpho Blue contract
type Client struct {
	contract common.Address
	abi      abi.ABI
	logger   *zap.Logger
}

func NewClient(contractAddr string, logger *zap.Logger) (*Client, error) {
	if !common.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("invalid Morpho contract address: %s", contractAddr)
	}

	parsedABI, err := abi.JSON(strings.NewReader(blueABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	return &Client{
		contract: common.HexToAddress(contractAddr),
		abi:      parsedABI,
		logger:   logger,
	}, nil
}

// Contract returns the deployed contract address this client targets
func (c *Client) Contract() common.Address {
	return c.contract
}

// Deposit supplies assets into a market on behalf of the resolved address and
// waits for one confirmation. The deposit amount goes in the assets leg and a
// literal zero in the shares leg, letting the contract compute the other side.
// Submitting twice with identical inputs produces two separate deposits.
func (c *Client) Deposit(ctx context.Context, req domain.DepositRequest, sender TxSender) (*domain.DepositResult, error) {
	if req.DepositAmount == nil || req.DepositAmount.Sign() < 0 {
		return nil, &domain.TransactionError{
			Stage: domain.StageSubmission,
			Err:   fmt.Errorf("deposit amount must be a non-negative integer"),
		}
	}

	params, err := toMarketParamsTuple(req.MarketParams)
	if err != nil {
		return nil, &domain.TransactionError{Stage: domain.StageSubmission, Err: err}
	}

	// Resolve onBehalf: explicit value or the sender's own address
	var onBehalf common.Address
	if req.OnBehalf != "" {
		if !common.IsHexAddress(req.OnBehalf) {
			return nil, &domain.TransactionError{
				Stage: domain.StageAddressResolution,
				Err:   fmt.Errorf("invalid onBehalf address: %s", req.OnBehalf),
			}
		}
		onBehalf = common.HexToAddress(req.OnBehalf)
	} else {
		onBehalf, err = sender.Address(ctx)
		if err != nil {
			return nil, &domain.TransactionError{
				Stage: domain.StageAddressResolution,
				Err:   fmt.Errorf("failed to resolve sender address: %w", err),
			}
		}
	}

	// Exactly one of (assets, shares) is nonzero per protocol convention.
	// The data leg is a callback hook, unused here.
	assets := req.DepositAmount
	shares := big.NewInt(0)

	calldata, err := c.abi.Pack("supply", params, assets, shares, onBehalf, []byte{})
	if err != nil {
		return nil, &domain.TransactionError{
			Stage: domain.StageSubmission,
			Err:   fmt.Errorf("failed to pack supply call: %w", err),
		}
	}

	c.logger.Info("Submitting supply transaction",
		zap.String("market_id", req.MarketParams.Id),
		zap.String("loan_token", req.MarketParams.LoanToken),
		zap.String("on_behalf", onBehalf.Hex()),
		zap.String("assets", assets.String()))

	tx, err := sender.SendTransaction(ctx, c.contract, calldata)
	if err != nil {
		return nil, &domain.TransactionError{
			Stage: domain.StageSubmission,
			Err:   fmt.Errorf("failed to send transaction: %w", err),
		}
	}

	receipt, err := sender.WaitMined(ctx, tx)
	if err != nil {
		return nil, &domain.TransactionError{
			Stage: domain.StageConfirmation,
			Err:   fmt.Errorf("failed to confirm transaction %s: %w", tx.Hash().Hex(), err),
		}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.TransactionError{
			Stage: domain.StageConfirmation,
			Err:   fmt.Errorf("transaction %s reverted", tx.Hash().Hex()),
		}
	}

	mintedShares := c.sharesFromReceipt(receipt, shares)

	result := &domain.DepositResult{
		Assets:      assets,
		Shares:      mintedShares,
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.Int64(),
	}

	c.logger.Info("Supply transaction confirmed",
		zap.String("tx_hash", result.TxHash),
		zap.Int64("block", result.BlockNumber),
		zap.String("assets", result.Assets.String()),
		zap.String("shares", result.Shares.String()))

	return result, nil
}

// sharesFromReceipt reads the shares argument from the first receipt log.
// The log's event signature is not checked: if the first event is not the
// supply event the decode either fails, returning the submitted fallback, or
// yields whatever value sits in the shares slot.
func (c *Client) sharesFromReceipt(receipt *types.Receipt, fallback *big.Int) *big.Int {
	if len(receipt.Logs) == 0 || receipt.Logs[0] == nil {
		return fallback
	}

	values, err := c.abi.Events["Supply"].Inputs.NonIndexed().Unpack(receipt.Logs[0].Data)
	if err != nil || len(values) < 2 {
		return fallback
	}

	minted, ok := values[1].(*big.Int)
	if !ok {
		return fallback
	}

	return minted
}

func toMarketParamsTuple(p domain.MarketParams) (marketParamsTuple, error) {
	for name, addr := range map[string]string{
		"loanToken":       p.LoanToken,
		"collateralToken": p.CollateralToken,
		"oracle":          p.Oracle,
		"irm":             p.Irm,
	} {
		if !common.IsHexAddress(addr) {
			return marketParamsTuple{}, fmt.Errorf("invalid %s address: %q", name, addr)
		}
	}

	if p.Lltv == nil {
		return marketParamsTuple{}, fmt.Errorf("lltv is required")
	}

	return marketParamsTuple{
		LoanToken:       common.HexToAddress(p.LoanToken),
		CollateralToken: common.HexToAddress(p.CollateralToken),
		Oracle:          common.HexToAddress(p.Oracle),
		Irm:             common.HexToAddress(p.Irm),
		Lltv:            p.Lltv,
	}, nil
}
