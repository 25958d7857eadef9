package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/komantuhamid/mintracoo-sub000/internal/artwork"
	"github.com/komantuhamid/mintracoo-sub000/internal/chain"
	"github.com/komantuhamid/mintracoo-sub000/internal/config"
	"github.com/komantuhamid/mintracoo-sub000/internal/profile"
	"github.com/komantuhamid/mintracoo-sub000/internal/server"
	"github.com/komantuhamid/mintracoo-sub000/internal/voucher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if cfg.Keys.MinterPrivateKey == "" {
		log.Fatalf("MINTER_PRIVATE_KEY is required")
	}
	signer, err := voucher.NewLocalSigner(cfg.Keys.MinterPrivateKey)
	if err != nil {
		log.Fatalf("minter key error: %v", err)
	}
	log.Printf("minter address %s", signer.Address())

	reader, err := chain.NewEthReader(context.Background(), chain.EthReaderConfig{
		RPCURL:          cfg.Chain.RPCURL,
		ContractAddress: cfg.Chain.ContractAddress,
	})
	if err != nil {
		log.Fatalf("chain reader error: %v", err)
	}

	issuer := voucher.NewIssuer(reader, signer)

	generator := artwork.NewGenerator(cfg.Keys.ImageAPIToken)
	if cfg.Keys.ImageEndpoint != "" {
		generator.Endpoint = cfg.Keys.ImageEndpoint
	}

	resolver := profile.NewResolver(cfg.Keys.NeynarAPIKey)

	apiServer := server.NewServer(cfg, issuer, generator, resolver)

	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiServer.Shutdown(ctx)
}
