package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/komantuhamid/mintracoo-sub000/internal/chain"
	"github.com/komantuhamid/mintracoo-sub000/internal/contracts"
	"github.com/komantuhamid/mintracoo-sub000/internal/voucher"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	destAddr     = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func issuedFixture(t *testing.T) *voucher.Issued {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	iss := voucher.NewIssuer(chain.NewFakeReader(0), voucher.NewLocalSignerFromKey(key))
	out, err := iss.Issue(context.Background(), voucher.IssueParams{
		To:       destAddr,
		ImageRef: "data:image/png;base64,AA==",
		Username: "alice",
		FID:      3,
	})
	if err != nil {
		t.Fatalf("issue fixture: %v", err)
	}
	return out
}

func TestBuildMintCall(t *testing.T) {
	issued := issuedFixture(t)

	call, err := BuildMintCall(contractAddr, issued)
	if err != nil {
		t.Fatalf("build call: %v", err)
	}
	if call.To != contractAddr {
		t.Fatalf("unexpected target %s", call.To)
	}
	if call.Value.String() != "100000000000000" {
		t.Fatalf("unexpected value %s", call.Value)
	}
	// 4-byte selector plus at least the ten request fields.
	if len(call.Data) < 4+10*32 {
		t.Fatalf("calldata too short: %d bytes", len(call.Data))
	}
	parsed, err := abi.JSON(strings.NewReader(contracts.TokenERC721ABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	if want := parsed.Methods["mintWithSignature"].ID; !bytes.Equal(call.Data[:4], want) {
		t.Fatalf("selector %s does not match mintWithSignature %s", hexutil.Encode(call.Data[:4]), hexutil.Encode(want))
	}
}

func TestMintFlow(t *testing.T) {
	issued := issuedFixture(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/profile":
			_, _ = w.Write([]byte(`{"pfp_url":"https://x/y.png","username":"alice","fid":3}`))
		case "/api/v1/generate":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["pfp_url"] != "https://x/y.png" {
				t.Errorf("unexpected pfp_url %q", req["pfp_url"])
			}
			_, _ = w.Write([]byte(`{"generated_image_url":"data:image/png;base64,AA=="}`))
		case "/api/v1/vouchers":
			var req map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["username"] != "alice" {
				t.Errorf("username not forwarded: %v", req["username"])
			}
			_ = json.NewEncoder(w).Encode(issued)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	call, err := c.Mint(context.Background(), contractAddr, destAddr, 3, "")
	if err != nil {
		t.Fatalf("mint flow: %v", err)
	}
	if call.Value.String() != issued.PriceWei {
		t.Fatalf("unexpected value %s", call.Value)
	}
	want := []string{"/api/v1/profile", "/api/v1/generate", "/api/v1/vouchers"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected call order %v", paths)
	}
}

func TestMintFlowSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"all 5000 tokens minted"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.RequestVoucher(context.Background(), destAddr, "ipfs://img", "", 0)
	if err == nil || !strings.Contains(err.Error(), "all 5000 tokens minted") {
		t.Fatalf("expected surfaced sold-out message, got %v", err)
	}
}
