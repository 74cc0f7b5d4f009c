package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
)

// Uploads stores payment screenshots on local disk, named
// screenshot-<unix-ms>.<ext>. jpeg/jpg/png only, 5 MB cap.
type Uploads struct{ Dir string }

const maxScreenshotBytes = 5 << 20

var allowedScreenshotExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// SaveScreenshot reads the optional "screenshot" part of a multipart
// request. Returns "" when no file was sent.
func (u *Uploads) SaveScreenshot(r *http.Request) (string, error) {
	f, hdr, err := r.FormFile("screenshot")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: screenshot: %v", shop.ErrValidation, err)
	}
	defer f.Close()

	if hdr.Size > maxScreenshotBytes {
		return "", fmt.Errorf("%w: screenshot exceeds 5 MB", shop.ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !allowedScreenshotExt[ext] {
		return "", fmt.Errorf("%w: images only (jpeg, jpg, png)", shop.ErrValidation)
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	name := fmt.Sprintf("screenshot-%d%s", time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(f, maxScreenshotBytes)); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	return "/uploads/" + name, nil
}
