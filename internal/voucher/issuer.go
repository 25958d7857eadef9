package voucher

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"
	"time"

	"github.com/komantuhamid/mintracoo-sub000/internal/apperr"
	"github.com/komantuhamid/mintracoo-sub000/internal/chain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// MaxSupply is the drop's supply cap. The pre-check here is advisory;
	// the contract enforces the cap at mint time.
	MaxSupply = 5000

	// ValidityWindow bounds how long an issued voucher stays submittable.
	ValidityWindow = time.Hour
)

// PriceWei is the fixed mint price, 0.0001 native units.
var PriceWei = big.NewInt(100_000_000_000_000)

// IssueParams carries the validated inputs for one issuance.
type IssueParams struct {
	To       common.Address
	ImageRef string
	Username string
	FID      uint64
}

// Issued is the signed voucher returned to the client.
type Issued struct {
	MintRequest MintRequest `json:"mintRequest"`
	Signature   string      `json:"signature"`
	PriceWei    string      `json:"priceWei"`
}

// Issuer constructs and signs mint vouchers. Clock and entropy are fields so
// tests can pin them; zero values fall back to real time and crypto/rand.
type Issuer struct {
	Reader chain.Reader
	Signer Signer

	MaxSupply *big.Int
	Price     *big.Int
	Window    time.Duration
	Now       func() time.Time
	Rand      io.Reader
}

func NewIssuer(reader chain.Reader, signer Signer) *Issuer {
	return &Issuer{
		Reader:    reader,
		Signer:    signer,
		MaxSupply: big.NewInt(MaxSupply),
		Price:     new(big.Int).Set(PriceWei),
		Window:    ValidityWindow,
	}
}

// Issue builds, signs, and returns one voucher. Every call re-reads the live
// supply counter and the live EIP-712 domain; nothing is cached or persisted,
// so a dropped voucher means a fresh call with a fresh uid and window.
func (i *Issuer) Issue(ctx context.Context, p IssueParams) (*Issued, error) {
	if i.Signer == nil {
		return nil, apperr.New(apperr.KindUnconfigured, "minter key not configured")
	}
	if p.ImageRef == "" {
		return nil, apperr.New(apperr.KindBadInput, "image reference is required")
	}
	if p.To == (common.Address{}) {
		return nil, apperr.New(apperr.KindBadInput, "destination address is required")
	}

	minted, err := i.Reader.MintedCount(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "read mint count")
	}
	if minted.Cmp(i.MaxSupply) >= 0 {
		return nil, apperr.New(apperr.KindSoldOut, "all %s tokens minted", i.MaxSupply)
	}

	domain, err := i.Reader.EIP712Domain(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "read signing domain")
	}

	now := time.Now()
	if i.Now != nil {
		now = i.Now()
	}
	start := uint64(now.Unix())

	uid, err := i.newUID()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "generate voucher uid")
	}

	req := MintRequest{
		To:                   p.To,
		RoyaltyRecipient:     p.To,
		RoyaltyBps:           0,
		PrimarySaleRecipient: p.To,
		URI:                  metadataURI(p.Username, p.FID, p.ImageRef),
		Price:                new(big.Int).Set(i.Price),
		Currency:             NativeCurrency,
		ValidityStart:        start,
		ValidityEnd:          start + uint64(i.Window/time.Second),
		UID:                  uid,
	}

	sig, err := i.Signer.SignTypedData(req.TypedData(domain))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "sign mint request")
	}

	return &Issued{
		MintRequest: req,
		Signature:   hexutil.Encode(sig),
		PriceWei:    i.Price.String(),
	}, nil
}

// newUID draws the single-use identifier. Full-width entropy is the sole
// replay-prevention mechanism, so the reader must be cryptographically secure.
func (i *Issuer) newUID() (common.Hash, error) {
	src := i.Rand
	if src == nil {
		src = rand.Reader
	}
	var uid common.Hash
	if _, err := io.ReadFull(src, uid[:]); err != nil {
		return common.Hash{}, err
	}
	return uid, nil
}
