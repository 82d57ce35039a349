/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/ssargent/niokit/pkg/buffer"
	"github.com/ssargent/niokit/pkg/channel"
	"github.com/ssargent/niokit/pkg/charset"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a file under a named charset",
	Long: `Read a file and print its contents decoded under a named charset.

Without --replace, bytes that are not valid in the charset are reported
with their offset. With --replace they decode to U+FFFD, which is also
what decoding under the wrong charset tends to look like.

Examples:
  nio decode --charset GBK gbk.txt
  nio decode --charset UTF-8 mystery.bin --replace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("charset")
		replace, _ := cmd.Flags().GetBool("replace")

		var opts []charset.Option
		if replace {
			opts = append(opts, charset.WithMalformed(charset.Replace))
		}
		codec, err := container.Codec(name, opts...)
		if err != nil {
			return err
		}

		data, err := readFile(args[0])
		if err != nil {
			return err
		}

		decoded, err := codec.Decode(data)
		if err != nil {
			return err
		}
		cmd.Println(buffer.Text(decoded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().String("charset", "", "Source charset (default from config)")
	decodeCmd.Flags().Bool("replace", false, "Decode malformed input to U+FFFD instead of failing")
}

// readFile loads the whole file at path into a buffer ready for draining
func readFile(path string) (*buffer.ByteBuffer, error) {
	ch, err := channel.Open(path, channel.ModeRead, container.ChannelOptions()...)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	size, err := ch.Size()
	if err != nil {
		return nil, err
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("%s is too large to decode in memory", path)
	}

	buf, err := buffer.Allocate[byte](int(size))
	if err != nil {
		return nil, err
	}
	for buf.HasRemaining() {
		_, err := ch.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	buf.Flip()
	return buf, nil
}
