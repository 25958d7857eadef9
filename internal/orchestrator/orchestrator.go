package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/komantuhamid/mintracoo-sub000/internal/contracts"
	"github.com/komantuhamid/mintracoo-sub000/internal/profile"
	"github.com/komantuhamid/mintracoo-sub000/internal/voucher"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Client drives the full mint flow against the service: resolve profile,
// generate art, request a voucher, and encode the on-chain call. Submitting
// the transaction stays with the wallet layer.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

// MintCall is the prepared transaction for mintWithSignature.
type MintCall struct {
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
}

func (c *Client) ResolveProfile(ctx context.Context, fid uint64) (*profile.Profile, error) {
	var out profile.Profile
	if err := c.post(ctx, "/api/v1/profile", map[string]uint64{"fid": fid}, &out); err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	return &out, nil
}

func (c *Client) GenerateArt(ctx context.Context, pfpURL, style string) (string, error) {
	var out struct {
		GeneratedImageURL string `json:"generated_image_url"`
	}
	body := map[string]string{"pfp_url": pfpURL}
	if style != "" {
		body["style"] = style
	}
	if err := c.post(ctx, "/api/v1/generate", body, &out); err != nil {
		return "", fmt.Errorf("generate art: %w", err)
	}
	return out.GeneratedImageURL, nil
}

func (c *Client) RequestVoucher(ctx context.Context, to common.Address, imageRef, username string, fid uint64) (*voucher.Issued, error) {
	var out voucher.Issued
	req := map[string]interface{}{
		"to":        to.Hex(),
		"image_url": imageRef,
	}
	if username != "" {
		req["username"] = username
	}
	if fid != 0 {
		req["fid"] = fid
	}
	if err := c.post(ctx, "/api/v1/vouchers", req, &out); err != nil {
		return nil, fmt.Errorf("request voucher: %w", err)
	}
	return &out, nil
}

// BuildMintCall packs the voucher into mintWithSignature calldata.
func BuildMintCall(contractAddr common.Address, issued *voucher.Issued) (*MintCall, error) {
	parsed, err := abi.JSON(strings.NewReader(contracts.TokenERC721ABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}

	sig, err := hexutil.Decode(issued.Signature)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}

	data, err := parsed.Pack("mintWithSignature", issued.MintRequest.Tuple(), sig)
	if err != nil {
		return nil, fmt.Errorf("pack mintWithSignature: %w", err)
	}

	value, ok := new(big.Int).SetString(issued.PriceWei, 10)
	if !ok {
		return nil, fmt.Errorf("invalid priceWei %q", issued.PriceWei)
	}

	return &MintCall{
		To:    contractAddr,
		Value: value,
		Data:  data,
	}, nil
}

// Mint runs the whole flow for one fid and destination address.
func (c *Client) Mint(ctx context.Context, contractAddr common.Address, to common.Address, fid uint64, style string) (*MintCall, error) {
	prof, err := c.ResolveProfile(ctx, fid)
	if err != nil {
		return nil, err
	}
	if prof.PfpURL == "" {
		return nil, fmt.Errorf("profile %d has no picture to transform", fid)
	}

	imageRef, err := c.GenerateArt(ctx, prof.PfpURL, style)
	if err != nil {
		return nil, err
	}

	issued, err := c.RequestVoucher(ctx, to, imageRef, prof.Username, prof.FID)
	if err != nil {
		return nil, err
	}

	return BuildMintCall(contractAddr, issued)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", path, envelope.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.Unmarshal(raw, out)
}
