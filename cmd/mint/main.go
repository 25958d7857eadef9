// Command mint runs the full flow against a running API server and prints the
// prepared mintWithSignature transaction for wallet submission.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/komantuhamid/mintracoo-sub000/internal/orchestrator"

	"github.com/ethereum/go-ethereum/common"
)

func main() {
	api := flag.String("api", "http://localhost:3000", "Base URL of the API server")
	contract := flag.String("contract", "", "Drop contract address")
	to := flag.String("to", "", "Destination address for the minted token")
	fid := flag.Uint64("fid", 0, "Farcaster id to resolve")
	style := flag.String("style", "", "Optional style hint for the art transform")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall flow timeout")
	flag.Parse()

	if *fid == 0 || !common.IsHexAddress(*to) || !common.IsHexAddress(*contract) {
		fmt.Fprintln(os.Stderr, "usage: mint -fid=3 -to=0x... -contract=0x... [-api=URL] [-style=...]")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := orchestrator.New(*api)
	call, err := client.Mint(ctx, common.HexToAddress(*contract), common.HexToAddress(*to), *fid, *style)
	if err != nil {
		log.Fatalf("mint flow failed: %v", err)
	}

	out, err := json.MarshalIndent(call, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
