package enums

import "fmt"

// ImageType tags the role an image plays on a media page.
type ImageType string

const (
	ImageTypePoster   ImageType = "Poster"
	ImageTypeBackdrop ImageType = "Backdrop"
	ImageTypeGallery  ImageType = "Gallery"
)

var validImageTypes = []ImageType{
	ImageTypePoster,
	ImageTypeBackdrop,
	ImageTypeGallery,
}

// ImageTypes returns every image tag in display order.
func ImageTypes() []ImageType {
	out := make([]ImageType, len(validImageTypes))
	copy(out, validImageTypes)
	return out
}

func (t ImageType) String() string {
	return string(t)
}

func (t ImageType) IsValid() bool {
	for _, candidate := range validImageTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseImageType converts raw input into an ImageType.
func ParseImageType(value string) (ImageType, error) {
	for _, candidate := range validImageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid image type %q", value)
}

// VideoType tags a media video.
type VideoType string

const (
	VideoTypeTrailer    VideoType = "Trailer"
	VideoTypeTeaser     VideoType = "Teaser"
	VideoTypeClip       VideoType = "Clip"
	VideoTypeFeaturette VideoType = "Featurette"
)

var validVideoTypes = []VideoType{
	VideoTypeTrailer,
	VideoTypeTeaser,
	VideoTypeClip,
	VideoTypeFeaturette,
}

// VideoTypes returns every video tag in display order.
func VideoTypes() []VideoType {
	out := make([]VideoType, len(validVideoTypes))
	copy(out, validVideoTypes)
	return out
}

func (t VideoType) String() string {
	return string(t)
}

func (t VideoType) IsValid() bool {
	for _, candidate := range validVideoTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseVideoType converts raw input into a VideoType.
func ParseVideoType(value string) (VideoType, error) {
	for _, candidate := range validVideoTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid video type %q", value)
}
