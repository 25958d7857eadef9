package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/komantuhamid/mintracoo-sub000/internal/apperr"
)

// defaultEndpoint is the Neynar bulk user lookup.
const defaultEndpoint = "https://api.neynar.com/v2/farcaster/user/bulk"

// Profile is the normalized record handed to callers.
type Profile struct {
	PfpURL      string `json:"pfp_url"`
	DisplayName string `json:"display_name,omitempty"`
	Username    string `json:"username"`
	FID         uint64 `json:"fid"`
}

// bulkResponse models the slice of the upstream payload we rely on. Raw
// payloads are normalized here and never passed deeper into the system.
type bulkResponse struct {
	Users []struct {
		FID         uint64 `json:"fid"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		PfpURL      string `json:"pfp_url"`
		Profile     struct {
			DisplayName string `json:"display_name"`
		} `json:"profile"`
	} `json:"users"`
}

// Resolver looks up Farcaster profiles. Every call is live; nothing is cached.
type Resolver struct {
	APIKey   string
	Endpoint string
	HTTP     *http.Client
}

func NewResolver(apiKey string) *Resolver {
	return &Resolver{
		APIKey:   apiKey,
		Endpoint: defaultEndpoint,
	}
}

// Resolve fetches and normalizes the profile for one fid.
func (r *Resolver) Resolve(ctx context.Context, fid uint64) (*Profile, error) {
	if fid == 0 {
		return nil, apperr.New(apperr.KindBadInput, "fid must be a positive integer")
	}
	if r.APIKey == "" {
		return nil, apperr.New(apperr.KindUnconfigured, "profile api key not configured")
	}

	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?fids=%d", endpoint, fid), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "build profile request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", r.APIKey)

	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "call profile api")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "read profile response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ClassifyResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body)
	}

	var parsed bulkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.Wrap(apperr.KindBadUpstream, err, "malformed profile response")
	}
	if len(parsed.Users) == 0 {
		return nil, apperr.New(apperr.KindBadUpstream, "no profile found for fid %d", fid)
	}

	user := parsed.Users[0]
	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Profile.DisplayName
	}
	return &Profile{
		PfpURL:      user.PfpURL,
		DisplayName: displayName,
		Username:    user.Username,
		FID:         user.FID,
	}, nil
}
