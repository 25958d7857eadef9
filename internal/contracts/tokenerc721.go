package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenERC721ABI covers the subset of the signature-mint drop contract this
// service touches: the supply counter, the EIP-5267 domain accessor, and the
// payable mint entrypoint the client submits vouchers to.
const TokenERC721ABI = `[
  {
    "inputs": [],
    "name": "nextTokenIdToMint",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "eip712Domain",
    "outputs": [
      {"internalType": "bytes1", "name": "fields", "type": "bytes1"},
      {"internalType": "string", "name": "name", "type": "string"},
      {"internalType": "string", "name": "version", "type": "string"},
      {"internalType": "uint256", "name": "chainId", "type": "uint256"},
      {"internalType": "address", "name": "verifyingContract", "type": "address"},
      {"internalType": "bytes32", "name": "salt", "type": "bytes32"},
      {"internalType": "uint256[]", "name": "extensions", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "components": [
          {"internalType": "address", "name": "to", "type": "address"},
          {"internalType": "address", "name": "royaltyRecipient", "type": "address"},
          {"internalType": "uint256", "name": "royaltyBps", "type": "uint256"},
          {"internalType": "address", "name": "primarySaleRecipient", "type": "address"},
          {"internalType": "string", "name": "uri", "type": "string"},
          {"internalType": "uint256", "name": "price", "type": "uint256"},
          {"internalType": "address", "name": "currency", "type": "address"},
          {"internalType": "uint128", "name": "validityStartTimestamp", "type": "uint128"},
          {"internalType": "uint128", "name": "validityEndTimestamp", "type": "uint128"},
          {"internalType": "bytes32", "name": "uid", "type": "bytes32"}
        ],
        "internalType": "struct ITokenERC721.MintRequest",
        "name": "_req",
        "type": "tuple"
      },
      {"internalType": "bytes", "name": "_signature", "type": "bytes"}
    ],
    "name": "mintWithSignature",
    "outputs": [{"internalType": "uint256", "name": "tokenIdMinted", "type": "uint256"}],
    "stateMutability": "payable",
    "type": "function"
  }
]`

// MintRequestTuple mirrors the on-chain MintRequest struct for abi packing.
// Field order matches the tuple components above.
type MintRequestTuple struct {
	To                     common.Address
	RoyaltyRecipient       common.Address
	RoyaltyBps             *big.Int
	PrimarySaleRecipient   common.Address
	Uri                    string
	Price                  *big.Int
	Currency               common.Address
	ValidityStartTimestamp *big.Int
	ValidityEndTimestamp   *big.Int
	Uid                    [32]byte
}
