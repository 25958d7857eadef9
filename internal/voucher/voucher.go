package voucher

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"

	"github.com/komantuhamid/mintracoo-sub000/internal/chain"
	"github.com/komantuhamid/mintracoo-sub000/internal/contracts"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// NativeCurrency is the sentinel address the drop contract treats as the
// chain's native currency.
var NativeCurrency = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// MintRequest is the typed struct the minter key signs and the contract
// verifies. Field order matches the on-chain struct definition; the signature
// is a structural commitment over this exact layout.
type MintRequest struct {
	To                   common.Address `json:"to"`
	RoyaltyRecipient     common.Address `json:"royaltyRecipient"`
	RoyaltyBps           uint64         `json:"royaltyBps"`
	PrimarySaleRecipient common.Address `json:"primarySaleRecipient"`
	URI                  string         `json:"uri"`
	Price                *big.Int       `json:"price"`
	Currency             common.Address `json:"currency"`
	ValidityStart        uint64         `json:"validityStartTimestamp"`
	ValidityEnd          uint64         `json:"validityEndTimestamp"`
	UID                  common.Hash    `json:"uid"`
}

var mintRequestFields = []apitypes.Type{
	{Name: "to", Type: "address"},
	{Name: "royaltyRecipient", Type: "address"},
	{Name: "royaltyBps", Type: "uint256"},
	{Name: "primarySaleRecipient", Type: "address"},
	{Name: "uri", Type: "string"},
	{Name: "price", Type: "uint256"},
	{Name: "currency", Type: "address"},
	{Name: "validityStartTimestamp", Type: "uint128"},
	{Name: "validityEndTimestamp", Type: "uint128"},
	{Name: "uid", Type: "bytes32"},
}

// TypedData binds the request to the contract's live domain for signing.
func (r MintRequest) TypedData(d chain.Domain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"MintRequest": mintRequestFields,
		},
		PrimaryType: "MintRequest",
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           (*math.HexOrDecimal256)(d.ChainID),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"to":                     r.To.Hex(),
			"royaltyRecipient":       r.RoyaltyRecipient.Hex(),
			"royaltyBps":             math.NewHexOrDecimal256(int64(r.RoyaltyBps)),
			"primarySaleRecipient":   r.PrimarySaleRecipient.Hex(),
			"uri":                    r.URI,
			"price":                  (*math.HexOrDecimal256)(r.Price),
			"currency":               r.Currency.Hex(),
			"validityStartTimestamp": math.NewHexOrDecimal256(int64(r.ValidityStart)),
			"validityEndTimestamp":   math.NewHexOrDecimal256(int64(r.ValidityEnd)),
			"uid":                    r.UID.Hex(),
		},
	}
}

// Tuple converts the request to the abi-packable form of the on-chain struct.
func (r MintRequest) Tuple() contracts.MintRequestTuple {
	return contracts.MintRequestTuple{
		To:                     r.To,
		RoyaltyRecipient:       r.RoyaltyRecipient,
		RoyaltyBps:             new(big.Int).SetUint64(r.RoyaltyBps),
		PrimarySaleRecipient:   r.PrimarySaleRecipient,
		Uri:                    r.URI,
		Price:                  new(big.Int).Set(r.Price),
		Currency:               r.Currency,
		ValidityStartTimestamp: new(big.Int).SetUint64(r.ValidityStart),
		ValidityEndTimestamp:   new(big.Int).SetUint64(r.ValidityEnd),
		Uid:                    r.UID,
	}
}

type tokenMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// metadataURI inlines the token metadata as a data URI so the voucher stays
// self-describing with no storage dependency after issuance.
func metadataURI(username string, fid uint64, imageRef string) string {
	name := "AI PFP"
	if username != "" {
		name = fmt.Sprintf("AI PFP – @%s", username)
	}
	description := "Generated PFP"
	if fid != 0 {
		description = fmt.Sprintf("Farcaster FID %d", fid)
	}
	doc, _ := json.Marshal(tokenMetadata{
		Name:        name,
		Description: description,
		Image:       imageRef,
	})
	return "data:application/json," + url.PathEscape(string(doc))
}
