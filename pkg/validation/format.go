// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/solar-simulator/pkg/constants"
)

// OutputFormats lists every supported output format.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatJSON,
	constants.OutputFormatCSV,
	constants.OutputFormatPDF,
	constants.OutputFormatXLSX,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range OutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %q",
		strings.Join(OutputFormats, ", "), format)
}

// IsBinaryFormat reports whether format produces bytes that should not be
// written to a terminal.
func IsBinaryFormat(format string) bool {
	return format == constants.OutputFormatPDF || format == constants.OutputFormatXLSX
}
