// internal/chains/ethereum/signer.go
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Signer is a private-key signing capability over a JSON-RPC client. It owns
// nonce acquisition and gas pricing; concurrent submissions from the same key
// are serialized by the node's pending-nonce view, not by this struct.
type Signer struct {
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
	address     common.Address
	chainID     *big.Int
	maxGasPrice *big.Int
	logger      *zap.Logger
}

// NewSigner connects to the RPC endpoint and derives the signing address from
// the private key. The chain ID is taken from the node.
func NewSigner(rpcURL, privateKeyHex string, maxGasPriceGwei int64, logger *zap.Logger) (*Signer, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum: %w", err)
	}

	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// Remove 0x prefix if present
	if len(privateKeyHex) > 2 && privateKeyHex[:2] == "0x" {
		privateKeyHex = privateKeyHex[2:]
	}

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to cast public key")
	}
	address := crypto.PubkeyToAddress(*publicKey)

	logger.Info("Ethereum signer initialized",
		zap.String("rpc", rpcURL),
		zap.String("chain_id", chainID.String()),
		zap.String("address", address.Hex()))

	return &Signer{
		client:      client,
		privateKey:  privateKey,
		address:     address,
		chainID:     chainID,
		maxGasPrice: new(big.Int).Mul(big.NewInt(maxGasPriceGwei), big.NewInt(1e9)),
		logger:      logger,
	}, nil
}

// Address returns the signing address
func (s *Signer) Address(ctx context.Context) (common.Address, error) {
	return s.address, nil
}

// SendTransaction signs and submits a contract call to the given address
func (s *Signer) SendTransaction(ctx context.Context, to common.Address, calldata []byte) (*types.Transaction, error) {
	nonce, err := s.client.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	// Cap gas price
	if gasPrice.Cmp(s.maxGasPrice) > 0 {
		gasPrice = s.maxGasPrice
	}

	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From: s.address,
		To:   &to,
		Data: calldata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTransaction(
		nonce,
		to,
		big.NewInt(0), // contract call carries no value
		gasLimit,
		gasPrice,
		calldata,
	)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(s.chainID), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	s.logger.Info("Transaction sent",
		zap.String("tx_hash", signedTx.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", nonce),
		zap.String("gas_price", gasPrice.String()))

	return signedTx, nil
}

// WaitMined blocks until the transaction is included in a block
func (s *Signer) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, s.client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction: %w", err)
	}
	return receipt, nil
}

// Close releases the underlying RPC connection
func (s *Signer) Close() {
	s.client.Close()
}
