package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Reader abstracts the two read-only contract calls voucher issuance needs.
type Reader interface {
	// MintedCount returns the contract's next-token-id counter, i.e. the
	// number of tokens minted so far.
	MintedCount(ctx context.Context) (*big.Int, error)
	// EIP712Domain returns the contract's live signing domain.
	EIP712Domain(ctx context.Context) (Domain, error)
}

// HealthChecker is implemented by readers backed by a live RPC connection.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Domain holds the EIP-712 domain fields read from the contract.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}
