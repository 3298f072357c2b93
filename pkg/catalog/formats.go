package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the supported keyword catalog formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one keyword per line
	FormatPack               // msgpack encoded Pack
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// FormatInfo contains metadata about a catalog file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Catalog",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
	FormatPack: {
		Format:      FormatPack,
		Description: "Packed Keyword Catalog",
		Extensions:  []string{".bin"},
		MinSize:     1, // at least the msgpack map header
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatPack {
		return validatePackHeader(filename)
	}
	return nil
}

// validatePackHeader checks the pack version without reading the keywords
func validatePackHeader(filename string) error {
	version, err := readPackVersion(filename)
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if version < 1 || version > PackVersion {
		return fmt.Errorf("unsupported pack version in %s: %d", filename, version)
	}
	log.Debugf("Pack file %s validated: version %d", filename, version)
	return nil
}

// DetectFileFormat detects the format of a file from its extension and header
func DetectFileFormat(filename string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		if err := ValidateFileFormat(filename, FormatText); err != nil {
			return FormatUnknown, err
		}
		return FormatText, nil
	case ".bin":
		if err := ValidateFileFormat(filename, FormatPack); err != nil {
			return FormatUnknown, err
		}
		return FormatPack, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// IsCatalogFile reports whether filename has a supported catalog extension
func IsCatalogFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return true
			}
		}
	}
	return false
}
