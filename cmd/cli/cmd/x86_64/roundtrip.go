package x86_64

import (
	"encoding/hex"
	"fmt"

	"github.com/corvid-systems/x64codec/architecture/x86_64"
	"github.com/spf13/cobra"
)

// RoundtripCmd decodes a hex-encoded byte sequence and re-encodes the
// resulting Instruction, printing both the rendered instruction and the
// re-encoded hex so a caller can confirm the codec's encode/decode round
// trip on arbitrary input.
var RoundtripCmd = &cobra.Command{
	Use:     "roundtrip <hex-bytes>",
	GroupID: "codec",
	Short:   "Decode then re-encode a hex-encoded byte sequence.",
	Long:    `Decode one instruction from hex bytes, re-encode it, and print both forms.`,
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

		encoded, err := x86_64.EncodeInstruction(instr)
		if err != nil {
			return fmt.Errorf("re-encode failed: %w", err)
		}

		cmd.Printf("%s\n", x86_64.RenderIntel(instr))
		cmd.Printf("original:  %s\n", hex.EncodeToString(data[:consumed]))
		cmd.Printf("re-encoded: %s\n", hex.EncodeToString(encoded))
		return nil
	},
}
