package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FakeReader serves fixed values so voucher construction can be exercised
// without a live chain.
type FakeReader struct {
	Minted    *big.Int
	DomainVal Domain
	ReadErr   error
}

func NewFakeReader(minted int64) *FakeReader {
	return &FakeReader{
		Minted: big.NewInt(minted),
		DomainVal: Domain{
			Name:              "TokenERC721",
			Version:           "1",
			ChainID:           big.NewInt(8453),
			VerifyingContract: common.HexToAddress("0x00000000000000000000000000000000000000d1"),
		},
	}
}

func (f *FakeReader) MintedCount(_ context.Context) (*big.Int, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	return new(big.Int).Set(f.Minted), nil
}

func (f *FakeReader) EIP712Domain(_ context.Context) (Domain, error) {
	if f.ReadErr != nil {
		return Domain{}, f.ReadErr
	}
	return f.DomainVal, nil
}
