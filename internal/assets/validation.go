package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLength keeps names well below common file name limits.
const maxAssetNameLength = 64

// ValidateAssetName checks that an asset name is safe for use as a file name.
// Path separators and dots are rejected, which rules out traversal and
// extension tricks before any path is built.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
