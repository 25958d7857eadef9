package server

import (
	"context"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/komantuhamid/mintracoo-sub000/internal/apperr"
	"github.com/komantuhamid/mintracoo-sub000/internal/artwork"
	"github.com/komantuhamid/mintracoo-sub000/internal/chain"
	"github.com/komantuhamid/mintracoo-sub000/internal/config"
	"github.com/komantuhamid/mintracoo-sub000/internal/hmacauth"
	"github.com/komantuhamid/mintracoo-sub000/internal/profile"
	"github.com/komantuhamid/mintracoo-sub000/internal/voucher"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

type Server struct {
	cfg         *config.AppConfig
	issuer      *voucher.Issuer
	generator   *artwork.Generator
	resolver    *profile.Resolver
	hmac        *hmacauth.Verifier
	httpServer  *http.Server
	metrics     *metricsRegistry
	rpcHealthFn func(context.Context) error
}

func NewServer(cfg *config.AppConfig, issuer *voucher.Issuer, generator *artwork.Generator, resolver *profile.Resolver) *Server {
	verifier := &hmacauth.Verifier{
		Secret:  cfg.Keys.RequestSecret,
		MaxSkew: cfg.Service.HMACClockSkew,
	}

	s := &Server{
		cfg:       cfg,
		issuer:    issuer,
		generator: generator,
		resolver:  resolver,
		hmac:      verifier,
		metrics:   newMetricsRegistry(),
	}

	if checker, ok := issuer.Reader.(chain.HealthChecker); ok {
		s.rpcHealthFn = checker.Ping
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/vouchers", verifier.Middleware(http.HandlerFunc(s.handleVouchers)))
	mux.HandleFunc("/api/v1/generate", s.handleGenerate)
	mux.HandleFunc("/api/v1/profile", s.handleProfile)
	mux.Handle("/api/v1/metrics", s.metrics.handler())
	mux.HandleFunc("/api/v1/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Service.HTTPPort),
		Handler:           requestIDMiddleware(mux),
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	log.Printf("API listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type voucherRequest struct {
	To       string `json:"to"`
	ImageURL string `json:"image_url"`
	Username string `json:"username"`
	FID      uint64 `json:"fid"`
}

type generateRequest struct {
	PfpURL string `json:"pfp_url"`
	Style  string `json:"style"`
}

type generateResponse struct {
	GeneratedImageURL string `json:"generated_image_url"`
}

type profileRequest struct {
	FID json.Number `json:"fid"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleVouchers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.metrics.incVoucher("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "invalid json payload"))
		return
	}
	if payload.ImageURL == "" {
		s.metrics.incVoucher("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "image_url is required"))
		return
	}
	if !common.IsHexAddress(payload.To) {
		s.metrics.incVoucher("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "to must be a valid address"))
		return
	}

	issued, err := s.issuer.Issue(r.Context(), voucher.IssueParams{
		To:       common.HexToAddress(payload.To),
		ImageRef: payload.ImageURL,
		Username: payload.Username,
		FID:      payload.FID,
	})
	if err != nil {
		ae := apperr.From(err)
		if ae.Kind == apperr.KindSoldOut {
			s.metrics.incVoucher("sold_out")
		} else {
			s.metrics.incVoucher("failed")
		}
		writeError(w, ae)
		return
	}

	s.metrics.incVoucher("issued")
	writeJSON(w, http.StatusOK, issued)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.metrics.incTransform("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "invalid json payload"))
		return
	}
	if payload.PfpURL == "" {
		s.metrics.incTransform("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "pfp_url is required"))
		return
	}

	imageURL, err := s.generator.Transform(r.Context(), payload.PfpURL, payload.Style)
	if err != nil {
		s.metrics.incTransform("failed")
		writeError(w, err)
		return
	}

	s.metrics.incTransform("generated")
	writeJSON(w, http.StatusOK, generateResponse{GeneratedImageURL: imageURL})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload profileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.metrics.incLookup("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "invalid json payload"))
		return
	}
	fid, err := payload.FID.Int64()
	if err != nil || fid <= 0 {
		s.metrics.incLookup("rejected")
		writeError(w, apperr.New(apperr.KindBadInput, "fid must be a positive integer"))
		return
	}

	p, err := s.resolver.Resolve(r.Context(), uint64(fid))
	if err != nil {
		s.metrics.incLookup("failed")
		writeError(w, err)
		return
	}

	s.metrics.incLookup("resolved")
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overallHealthy := true

	rpcInfo := struct {
		Connected bool    `json:"connected"`
		LatencyMs float64 `json:"latency_ms"`
		Error     string  `json:"error,omitempty"`
	}{}

	if s.rpcHealthFn != nil {
		start := time.Now()
		rpcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.rpcHealthFn(rpcCtx); err != nil {
			rpcInfo.Connected = false
			rpcInfo.Error = err.Error()
			overallHealthy = false
		} else {
			rpcInfo.Connected = true
			rpcInfo.LatencyMs = float64(time.Since(start).Microseconds()) / 1000.0
		}
	} else {
		rpcInfo.Connected = true
	}

	supply := struct {
		Remaining int64  `json:"remaining"`
		Error     string `json:"error,omitempty"`
	}{Remaining: -1}

	supplyCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if minted, err := s.issuer.Reader.MintedCount(supplyCtx); err != nil {
		supply.Error = err.Error()
	} else {
		remaining := new(big.Int).Sub(s.issuer.MaxSupply, minted)
		if remaining.Sign() < 0 {
			remaining.SetInt64(0)
		}
		supply.Remaining = remaining.Int64()
		s.metrics.setSupplyRemaining(float64(supply.Remaining))
	}

	status := "healthy"
	if !overallHealthy {
		status = "degraded"
	}

	resp := struct {
		Status string      `json:"status"`
		RPC    interface{} `json:"rpc"`
		Supply interface{} `json:"supply"`
	}{
		Status: status,
		RPC:    rpcInfo,
		Supply: supply,
	}

	w.Header().Set("Content-Type", "application/json")
	if !overallHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	writeJSON(w, ae.HTTPStatus(), errorResponse{Error: ae.Message, Details: ae.Details})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-Id") == "" {
			r.Header.Set("X-Request-Id", uuid.NewString())
		}
		next.ServeHTTP(w, r)
	})
}
