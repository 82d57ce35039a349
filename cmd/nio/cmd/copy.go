/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/niokit/pkg/transfer"
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <src> <dst>",
	Short: "Copy a file through a channel",
	Long: `Copy a file using one of three strategies:

  buffered  read into a heap buffer, flip, write, compact
  direct    hand the copy to the kernel where it can take it
  mapped    map both files and copy between the mappings

With --scatter the file is read into buffers of the given sizes and
written back out with a single gathering write per round.

Examples:
  nio copy in.jpg out.jpg
  nio copy in.jpg out.jpg --method mapped --atomic
  nio copy 1.txt 2.txt --scatter 100,1024`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, dst := args[0], args[1]
		cfg := container.Config()

		if cmd.Flags().Changed("method") {
			cfg.Copy.Method, _ = cmd.Flags().GetString("method")
		}
		if cmd.Flags().Changed("buffer-size") {
			cfg.BufferSize, _ = cmd.Flags().GetInt("buffer-size")
		}
		if cmd.Flags().Changed("atomic") {
			cfg.Copy.Atomic, _ = cmd.Flags().GetBool("atomic")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		copier, err := container.Copier()
		if err != nil {
			return err
		}

		sizes, _ := cmd.Flags().GetIntSlice("scatter")
		if len(sizes) > 0 {
			counts, n, err := copier.ScatterCopy(src, dst, sizes)
			if err != nil {
				return err
			}
			cmd.Printf("Copied %d bytes from %s to %s\n", n, src, dst)
			for i, count := range counts {
				cmd.Printf("  buffer %d (%d bytes): carried %d bytes\n", i, sizes[i], count)
			}
			return nil
		}

		result, err := copier.CopyFile(src, dst)
		if err != nil {
			return err
		}
		cmd.Printf("Copied %d bytes from %s to %s using %s in %s\n",
			result.Bytes, src, dst, result.Method, result.Duration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().String("method", transfer.Buffered.String(), "Copy method: buffered, direct or mapped")
	copyCmd.Flags().Int("buffer-size", transfer.DefaultBufferSize, "Buffer capacity in bytes")
	copyCmd.Flags().Bool("atomic", false, "Write to a temporary file and rename it into place")
	copyCmd.Flags().IntSlice("scatter", nil, fmt.Sprintf("Scatter/gather buffer sizes, e.g. %d,%d", 100, 1024))
}
