package cmd

import (
	"bytes"
	"fmt"
	"github.com/jumpkick/preon/binding"
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/persistence"
	"github.com/jumpkick/preon/shared"
	"github.com/spf13/cobra"
	"strconv"
	"strings"
)

var (
	encodeSnapshot string
	encodePad      uint8
)

// encodeCmd represents the encode command.
var encodeCmd = &cobra.Command{
	Use:   "encode [field=value ...]",
	Short: "Encode a record into hex bytes",
	Long: `Encode writes a record of the schema, given either as field=value
arguments or as a previously stored snapshot, and prints it as hex bytes.
The last byte is padded with the --pad bit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if encodePad > 1 {
			return fmt.Errorf("invalid --pad; expected: 0 or 1, given: %d", encodePad)
		}

		binder, err := newBinder()
		if err != nil {
			return err
		}

		var rec *binding.Record
		if encodeSnapshot != "" {
			filename, err := persistence.GetSnapshotFilename(cfg.DataDir, binder.Schema().Name, encodeSnapshot)
			if err != nil {
				return err
			}
			snapshot, err := persistence.FetchSnapshot(filename, binder.Schema().Name)
			if err != nil {
				return err
			}
			rec = snapshot.Record()
		} else {
			rec, err = parseAssignments(args)
			if err != nil {
				return err
			}
		}

		buf := bytes.NewBuffer(nil)
		w := bitstream.NewWriter(buf)
		if err := binder.Encode(rec, w); err != nil {
			logger.Error("encode failure: %v", err)
			return err
		}
		bits := w.Position()
		if err := w.Flush(bitstream.BitFromUint(uint64(encodePad))); err != nil {
			return err
		}

		logger.Debug("encoded %v bits", bits)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), shared.FormatHex(buf.Bytes()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVar(&encodeSnapshot, "snapshot", "", "Name of a stored snapshot to encode")
	encodeCmd.Flags().Uint8Var(&encodePad, "pad", 0, "Bit to pad the last byte with")
}

func parseAssignments(args []string) (*binding.Record, error) {
	rec := binding.NewRecord()
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid assignment %q; expected: field=value", arg)
		}
		v, err := strconv.ParseInt(parts[1], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value of `%v`: %v", parts[0], err)
		}
		rec.Set(parts[0], v)
	}
	return rec, nil
}
