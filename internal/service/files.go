package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/man-in-deep/sonic/internal/config"
)

const maxImageDimension = 1024

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var ErrUnsupportedImage = errors.New("unsupported image format")

// FileService owns the upload and output directories.
type FileService struct {
	uploadDir string
	outputDir string
}

func NewFileService(cfg config.Config) (*FileService, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileService{uploadDir: cfg.UploadDir, outputDir: cfg.OutputDir}, nil
}

// ValidateFilename checks the upload extension against the allow-list.
func ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedImage
	}
	return nil
}

// SaveUpload stores a reference upload under a collision-free name and
// returns its path.
func (f *FileService) SaveUpload(r io.Reader, originalName string) (string, error) {
	if err := ValidateFilename(originalName); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.NewString(), "-", ""), filepath.Base(originalName))
	path := filepath.Join(f.uploadDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", err
	}
	return path, nil
}

// SaveOutput writes generated PNG bytes under the output directory.
func (f *FileService) SaveOutput(data []byte) (string, error) {
	name := fmt.Sprintf("artwork_%s.png", strings.ReplaceAll(uuid.NewString(), "-", ""))
	path := filepath.Join(f.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// PrepareReference decodes a reference image, downscales it to the model's
// maximum edge, and re-encodes it as PNG.
func (f *FileService) PrepareReference(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img = Downscale(img, maxImageDimension)
	var buf bytes.Buffer
	if err := f.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *FileService) EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Downscale shrinks an image so its longest side is at most maxSize,
// keeping aspect ratio. Smaller images pass through untouched.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxSize, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxSize, imaging.Lanczos)
}
