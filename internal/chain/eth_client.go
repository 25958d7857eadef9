package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/komantuhamid/mintracoo-sub000/internal/contracts"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthReader reads supply and domain state from the drop contract over RPC.
type EthReader struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	address  common.Address
}

type EthReaderConfig struct {
	RPCURL          string
	ContractAddress string
}

func NewEthReader(ctx context.Context, cfg EthReaderConfig) (*EthReader, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	cli, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(contracts.TokenERC721ABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}

	address := common.HexToAddress(cfg.ContractAddress)
	bound := bind.NewBoundContract(address, parsedABI, cli, cli, cli)

	return &EthReader{
		client:   cli,
		contract: bound,
		address:  address,
	}, nil
}

func (r *EthReader) MintedCount(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "nextTokenIdToMint"); err != nil {
		return nil, fmt.Errorf("read nextTokenIdToMint: %w", err)
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected nextTokenIdToMint result type %T", out[0])
	}
	return count, nil
}

func (r *EthReader) EIP712Domain(ctx context.Context) (Domain, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "eip712Domain"); err != nil {
		return Domain{}, fmt.Errorf("read eip712Domain: %w", err)
	}
	if len(out) < 5 {
		return Domain{}, fmt.Errorf("short eip712Domain result: %d values", len(out))
	}

	name, ok := out[1].(string)
	if !ok {
		return Domain{}, fmt.Errorf("unexpected domain name type %T", out[1])
	}
	version, ok := out[2].(string)
	if !ok {
		return Domain{}, fmt.Errorf("unexpected domain version type %T", out[2])
	}
	chainID, ok := out[3].(*big.Int)
	if !ok {
		return Domain{}, fmt.Errorf("unexpected domain chainId type %T", out[3])
	}
	verifying, ok := out[4].(common.Address)
	if !ok {
		return Domain{}, fmt.Errorf("unexpected verifyingContract type %T", out[4])
	}

	return Domain{
		Name:              name,
		Version:           version,
		ChainID:           chainID,
		VerifyingContract: verifying,
	}, nil
}

func (r *EthReader) Ping(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("rpc client not configured")
	}
	_, err := r.client.BlockNumber(ctx)
	return err
}
