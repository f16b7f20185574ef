package x86_64

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/corvid-systems/x64codec/architecture/x86_64"
	"github.com/spf13/cobra"
)

// DecodeCmd decodes a hex-encoded byte sequence and prints the decoded
// instruction's Intel-syntax rendering and the number of bytes consumed.
var DecodeCmd = &cobra.Command{
	Use:     "decode <hex-bytes>",
	GroupID: "codec",
	Short:   "Decode a hex-encoded byte sequence into an Intel-syntax instruction.",
	Long:    `Decode a hex-encoded byte sequence (e.g. "48 89 d8" or "4889d8") into one instruction.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseHexBytes(args[0])
		if err != nil {
			return err
		}

		instr, consumed, err := x86_64.DecodeInstruction(data)
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}

		cmd.Printf("%s\n", x86_64.RenderIntel(instr))
		cmd.Printf("consumed %d of %d bytes\n", consumed, len(data))
		return nil
	},
}

// parseHexBytes accepts hex byte strings with or without internal whitespace
// ("48 89 d8" or "4889d8").
func parseHexBytes(s string) ([]byte, error) {
	clean := strings.ReplaceAll(s, " ", "")
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex byte sequence %q: %w", s, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty byte sequence")
	}
	return data, nil
}
