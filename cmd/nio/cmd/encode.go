/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/niokit/pkg/buffer"
	"github.com/ssargent/niokit/pkg/channel"
	"github.com/ssargent/niokit/pkg/charset"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <text>",
	Short: "Encode text under a named charset",
	Long: `Encode text under a named charset and print the bytes in hex, or write
them to a file with --out.

Examples:
  nio encode --charset GBK fighting
  nio encode --charset Shift_JIS 日本語 --out sjis.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("charset")
		out, _ := cmd.Flags().GetString("out")
		replace, _ := cmd.Flags().GetBool("replace")

		var opts []charset.Option
		if replace {
			opts = append(opts, charset.WithUnmappable(charset.Replace), charset.WithMalformed(charset.Replace))
		}
		codec, err := container.Codec(name, opts...)
		if err != nil {
			return err
		}

		encoded, err := codec.Encode(buffer.WrapString(args[0]))
		if err != nil {
			return err
		}

		if out == "" {
			raw, err := encoded.Readable()
			if err != nil {
				return err
			}
			cmd.Printf("% x\n", raw)
			return nil
		}

		n, err := writeFile(out, encoded)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %d bytes of %s to %s\n", n, codec.Charset().Name(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().String("charset", "", "Target charset (default from config)")
	encodeCmd.Flags().String("out", "", "Write the encoded bytes to this file instead of printing hex")
	encodeCmd.Flags().Bool("replace", false, "Substitute characters the charset cannot represent")
}

// writeFile drains buf into a freshly truncated file at path
func writeFile(path string, buf *buffer.ByteBuffer) (n int64, err error) {
	ch, err := channel.Open(path, channel.ModeCreate|channel.Truncate, container.ChannelOptions()...)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := ch.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for buf.HasRemaining() {
		written, err := ch.Write(buf)
		n += int64(written)
		if err != nil {
			return n, err
		}
		if written == 0 {
			return n, fmt.Errorf("short write to %s", path)
		}
	}
	return n, nil
}
