package checks

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
	videoExtensions = []string{".mp4", ".mov", ".avi"}
)

// ValidateImageFormat checks a filename or URL against the image allow-list.
func ValidateImageFormat(name string) (bool, string) {
	if name == "" || hasSuffixFold(name, imageExtensions) {
		return true, ""
	}
	return false, "Image must be JPG, PNG, or GIF format"
}

// ValidateVideoFormat checks a filename or URL against the video allow-list.
func ValidateVideoFormat(name string) (bool, string) {
	if name == "" || hasSuffixFold(name, videoExtensions) {
		return true, ""
	}
	return false, "Video must be MP4, MOV, or AVI format"
}

func hasSuffixFold(s string, suffixes []string) bool {
	lower := strings.ToLower(s)
	for _, ext := range suffixes {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

var dimensionPattern = regexp.MustCompile(`(\d+)x(\d+)`)

// ExtractDimensions reads "WIDTHxHEIGHT" from a filename such as
// banner_1200x628.png.
func ExtractDimensions(name string) (width, height int, ok bool) {
	m := dimensionPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}
