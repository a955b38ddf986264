package cmd

import (
	"bytes"
	"code.cloudfoundry.org/bytefmt"
	"errors"
	"fmt"
	"github.com/jumpkick/preon/binding"
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/persistence"
	"github.com/jumpkick/preon/shared"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"io"
	"io/ioutil"
	"strconv"
)

var (
	decodeHex  string
	decodeFile string
	decodeOut  string
)

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a record from binary input",
	Long: `Decode reads a single record of the schema from the input, given either
as hex text or as a binary file, and prints every field with its location.
The decoded record can be kept as a snapshot for later encoding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		binder, err := newBinder()
		if err != nil {
			return err
		}

		var filename string
		if decodeOut != "" {
			filename, err = persistence.GetSnapshotFilename(cfg.DataDir, binder.Schema().Name, decodeOut)
			if err != nil {
				return err
			}
		}

		input, size, err := openInput(decodeHex, decodeFile)
		if err != nil {
			return err
		}
		defer input.Close()

		budget := size * 8
		if cfg.BitBudget > 0 {
			budget = cfg.BitBudget
		}
		reader := bitstream.NewReader(input, bitstream.WithBudget(budget))

		rec, err := binder.Decode(reader)
		if err != nil {
			logger.Error("decode failure: %v", err)
			return err
		}

		remaining, _ := reader.Remaining()
		report(cmd.OutOrStdout(), rec, size, remaining)

		if filename != "" {
			if err := persistence.PersistSnapshot(filename, persistence.NewSnapshot(binder.Schema().Name, rec)); err != nil {
				return fmt.Errorf("failed to persist snapshot: %v", err)
			}
			logger.Info("snapshot persisted: %v", filename)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "snapshot: %v\n", filename)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(&decodeHex, "hex", "", "Input as hex bytes, e.g. \"21 00 00 FF\"")
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "", "Input file")
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "", "Name of a snapshot to store the decoded record as")
}

// openInput returns the input stream and its size in bytes.
func openInput(hexInput, file string) (io.ReadCloser, uint64, error) {
	switch {
	case hexInput != "" && file != "":
		return nil, 0, errors.New("either --hex or --file expected, not both")
	case hexInput != "":
		data, err := shared.ParseHex(hexInput)
		if err != nil {
			return nil, 0, err
		}
		return ioutil.NopCloser(bytes.NewReader(data)), uint64(len(data)), nil
	case file != "":
		reader, err := persistence.NewFileReader(file)
		if err != nil {
			return nil, 0, err
		}
		size, err := reader.Size()
		if err != nil {
			_ = reader.Close()
			return nil, 0, err
		}
		return reader, size, nil
	}
	return nil, 0, errors.New("no input; use --hex or --file")
}

func report(w io.Writer, rec *binding.Record, inputSize uint64, remaining uint64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"field", "value", "offset", "bits"})
	table.SetBorder(true)
	for _, e := range rec.Entries() {
		table.Append([]string{
			e.Name,
			strconv.FormatInt(e.Value, 10),
			strconv.FormatUint(e.Offset, 10),
			strconv.FormatUint(e.Bits, 10),
		})
	}
	table.Render()

	_, _ = fmt.Fprintf(w, "consumed %v bits of %v input, %v bits left in budget\n",
		rec.Bits(), bytefmt.ByteSize(inputSize), remaining)
}
