package resource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"resgen/internal/core/errors"

	"github.com/h2non/filetype"
)

var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "ico", "heic", "webp", "pdf"}

// "icon@2x~ipad" -> name "icon", scale 2, device "ipad"
var variantPattern = regexp.MustCompile(`^(.*?)(?:@(\d)x)?(?:~([A-Za-z]+))?$`)

// sniffLen is the header size filetype needs to match every image type.
const sniffLen = 262

func ParseImage(path string) (Image, error) {
	ext := extOf(path)
	if !hasExt(ext, ImageExtensions) {
		return Image{}, errors.UnsupportedExtension(path, ext, ImageExtensions)
	}
	if err := sniffImage(path, ext); err != nil {
		return Image{}, errors.ParsingFailed(path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	img := Image{Name: base, Path: path, Ext: ext, Scale: 1, Locale: localeOf(path)}
	if m := variantPattern.FindStringSubmatch(base); m != nil && m[1] != "" {
		img.Name = m[1]
		if m[2] != "" {
			img.Scale, _ = strconv.Atoi(m[2])
		}
		img.Device = m[3]
	}
	return img, nil
}

func sniffImage(path, ext string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	head = head[:n]

	if ext == "pdf" {
		if !filetype.Is(head, "pdf") {
			return fmt.Errorf("content is not a PDF document")
		}
		return nil
	}
	if !filetype.IsImage(head) {
		return fmt.Errorf("content of .%s file is not a recognised image", ext)
	}
	return nil
}
