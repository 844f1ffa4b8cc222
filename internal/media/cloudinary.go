// Package media talks to the Cloudinary upload API.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/config"
	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

const (
	DefaultBaseURL = "https://api.cloudinary.com/v1_1"
	defaultTimeout = 30 * time.Second
)

var ErrDisabled = errors.New("cloudinary is not configured")

// Cloudinary uploads and destroys images. With an API key and secret it signs
// requests; otherwise it falls back to an unsigned upload preset.
type Cloudinary struct {
	BaseURL string
	Cfg     config.Cloudinary
	Now     func() time.Time
}

func New(cfg config.Cloudinary) *Cloudinary {
	return &Cloudinary{BaseURL: DefaultBaseURL, Cfg: cfg, Now: time.Now}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Result    string `json:"result"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) signed() bool { return c.Cfg.APIKey != "" && c.Cfg.APISecret != "" }

// Upload sends a data URI or remote URL to the image host.
func (c *Cloudinary) Upload(ctx context.Context, source string) (domain.UploadResult, error) {
	if !c.Cfg.Enabled() {
		return domain.UploadResult{}, ErrDisabled
	}
	params := map[string]string{}
	if c.Cfg.Folder != "" {
		params["folder"] = c.Cfg.Folder
	}
	if !c.signed() {
		params["upload_preset"] = c.Cfg.UploadPreset
	}
	var out uploadResponse
	if err := c.post(ctx, "image/upload", params, map[string]string{"file": source}, &out); err != nil {
		return domain.UploadResult{}, err
	}
	url := out.SecureURL
	if url == "" {
		url = out.URL
	}
	return domain.UploadResult{URL: url, PublicID: out.PublicID, Width: out.Width, Height: out.Height}, nil
}

// Delete destroys an uploaded asset. It needs signed credentials.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if !c.signed() || c.Cfg.CloudName == "" {
		return ErrDisabled
	}
	var out uploadResponse
	if err := c.post(ctx, "image/destroy", map[string]string{"public_id": publicID}, nil, &out); err != nil {
		return err
	}
	if out.Result != "ok" && out.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, out.Result)
	}
	return nil
}

// post sends a form request. signedParams take part in the signature; extra
// fields (the file itself) do not.
func (c *Cloudinary) post(ctx context.Context, path string, signedParams, extra map[string]string, out *uploadResponse) error {
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)

	if c.signed() {
		signedParams["timestamp"] = strconv.FormatInt(c.Now().Unix(), 10)
		args.Set("api_key", c.Cfg.APIKey)
		args.Set("signature", Sign(signedParams, c.Cfg.APISecret))
	}
	for k, v := range signedParams {
		args.Set(k, v)
	}
	for k, v := range extra {
		args.Set(k, v)
	}

	a := fiber.Post(fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.BaseURL, "/"), c.Cfg.CloudName, path))
	a.Timeout(timeout(ctx))
	a.Form(args)
	code, _, errs := a.Struct(out)
	if len(errs) > 0 {
		return fmt.Errorf("cloudinary %s: %w", path, errors.Join(errs...))
	}
	if code >= 300 || out.Error != nil {
		msg := fiber.ErrBadGateway.Message
		if out.Error != nil {
			msg = out.Error.Message
		}
		return fmt.Errorf("cloudinary %s: status %d: %s", path, code, msg)
	}
	return nil
}

// Sign computes the API signature: the sorted key=value pairs joined with
// '&', followed by the secret, hashed with SHA-1.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func timeout(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
		return time.Millisecond
	}
	return defaultTimeout
}
