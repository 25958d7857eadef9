package artwork

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/komantuhamid/mintracoo-sub000/internal/apperr"
)

// defaultEndpoint is the hosted image-to-image model the service submits
// source images to.
const defaultEndpoint = "https://api-inference.huggingface.co/models/timbrooks/instruct-pix2pix"

// basePrompt is the fixed stylistic instruction; an optional style hint from
// the caller is appended to it.
const basePrompt = "convert to pixel art, 8-bit retro game avatar, blocky pixels, limited color palette"

// maxSourceBytes bounds how much source image we will buffer.
const maxSourceBytes = 8 << 20

// Generator turns a source image URL into a pixelated avatar data URI.
type Generator struct {
	APIToken string
	Endpoint string
	HTTP     *http.Client
}

func NewGenerator(apiToken string) *Generator {
	return &Generator{
		APIToken: apiToken,
		Endpoint: defaultEndpoint,
	}
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	Prompt string `json:"prompt"`
}

// Transform downloads the source image, runs it through the generation model,
// pixelates the result, and returns it as an inline PNG data URI.
func (g *Generator) Transform(ctx context.Context, sourceURL, styleHint string) (string, error) {
	if g.APIToken == "" {
		return "", apperr.New(apperr.KindUnconfigured, "image api token not configured")
	}
	if sourceURL == "" {
		return "", apperr.New(apperr.KindBadInput, "source image url is required")
	}

	source, err := g.fetchSource(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	generated, err := g.generate(ctx, source, prompt(styleHint))
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(generated))
	if err != nil {
		return "", apperr.Wrap(apperr.KindBadUpstream, err, "undecodable generated image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Pixelate(img, MaxEdge, BlockFactor)); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "encode output image")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (g *Generator) fetchSource(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadInput, err, "invalid source image url")
	}
	resp, err := g.httpClient().Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "fetch source image")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := apperr.New(apperr.KindUpstream, "source image fetch failed with status %d", resp.StatusCode)
		e.UpstreamStatus = resp.StatusCode
		return nil, e
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "read source image")
	}
	return body, nil
}

func (g *Generator) generate(ctx context.Context, source []byte, prompt string) ([]byte, error) {
	payload, _ := json.Marshal(generateRequest{
		Inputs:     base64.StdEncoding.EncodeToString(source),
		Parameters: generateParameters{Prompt: prompt},
	})

	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "build generation request")
	}
	req.Header.Set("Authorization", "Bearer "+g.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	// Cold models can take a while to load; wait instead of erroring.
	req.Header.Set("X-Wait-For-Model", "true")

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "call image generation api")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "read generation response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ClassifyResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body)
	}
	return body, nil
}

func (g *Generator) httpClient() *http.Client {
	if g.HTTP != nil {
		return g.HTTP
	}
	return http.DefaultClient
}

func prompt(styleHint string) string {
	if styleHint == "" {
		return basePrompt
	}
	return fmt.Sprintf("%s, %s", basePrompt, styleHint)
}
