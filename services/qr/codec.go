// Package qr renders lifecycle payloads as scannable QR images and reads them back.
package qr

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"parkwise/utils"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	skipqr "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// DefaultSize is the edge length in pixels of rendered codes.
const DefaultSize = 200

// ErrUnreadable is returned when an image holds no decodable QR code.
var ErrUnreadable = errors.New("no readable QR code in image")

// Codec encodes payloads to PNG data URLs and decodes images back to payloads.
type Codec interface {
	Encode(ctx context.Context, payload string) (string, error)
	Decode(ctx context.Context, img []byte) (string, error)
}

// DefaultCodec renders with go-qrcode and reads with gozxing. Cache is optional.
type DefaultCodec struct {
	Size  int
	Cache ImageCache
}

// NewCodec returns a codec rendering DefaultSize images through cache (may be nil).
func NewCodec(cache ImageCache) *DefaultCodec {
	return &DefaultCodec{Size: DefaultSize, Cache: cache}
}

func cacheKey(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return utils.QRCachePrefix + hex.EncodeToString(sum[:])
}

// Encode renders payload as a PNG data URL.
func (c *DefaultCodec) Encode(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", errors.New("empty QR payload")
	}
	key := cacheKey(payload)
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	size := c.Size
	if size <= 0 {
		size = DefaultSize
	}
	png, err := skipqr.Encode(payload, skipqr.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, dataURL); err != nil {
			utils.GetLogger().Warn("qr: cache write failed", zap.Error(err))
		}
	}
	return dataURL, nil
}

// Decode reads the first QR code found in an encoded PNG, JPEG or GIF image.
func (c *DefaultCodec) Decode(_ context.Context, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return result.GetText(), nil
}
