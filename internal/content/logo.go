package content

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// LoadLogo decodes the logo at path. An empty path means no logo and is not an error.
func LoadLogo(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load logo: %w", err)
	}
	return img, nil
}
