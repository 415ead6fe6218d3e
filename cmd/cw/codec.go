package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/codewiresh/syncwire/internal/syncvalue"
)

func codecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codec",
		Short: "Encode and decode values through the sync wire format",
	}
	cmd.AddCommand(codecEncodeCmd(), codecDecodeCmd())
	return cmd
}

// codecEncodeCmd reads a JSON value from stdin, decodes it through the
// wire mapping into a Value, and prints that Value's canonical wire
// encoding. Bare JSON numbers decode as Float64, so $integer, $bytes,
// $set and $map tags appear in the output only where the input already
// carries them.
func codecEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Read JSON from stdin, print its canonical Value wire encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			v, err := syncvalue.UnmarshalJSON(raw)
			if err != nil {
				return fmt.Errorf("decoding input: %w", err)
			}
			out, err := syncvalue.MarshalJSON(v)
			if err != nil {
				return fmt.Errorf("encoding value: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

// codecDecodeCmd reads a canonical wire-format JSON value from stdin
// (tagged $integer/$float/$bytes/$set/$map forms included) and prints a
// human-readable description of the decoded Value tree, exercising the
// opposite direction of the codec from `codec encode`.
func codecDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "Read wire-format JSON from stdin, print the decoded Value",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			v, err := syncvalue.UnmarshalJSON(raw)
			if err != nil {
				return fmt.Errorf("decoding input: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeValue(v))
			return nil
		},
	}
}

// printJSON writes data compact when stdout is piped and indented when
// it's a terminal, gated on isatty.IsTerminal the way the teacher's
// TTY-aware CLI output decides between human and machine formatting.
func printJSON(w io.Writer, data []byte) error {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("indenting output: %w", err)
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	}
	_, err := fmt.Fprintln(w, string(data))
	return err
}

// describeValue renders a Value as a short, indented debug tree: kind
// name plus content. Arrays are expanded element by element; sets, maps
// and objects are shown only with their element count.
func describeValue(v syncvalue.Value) string {
	var buf bytes.Buffer
	writeValue(&buf, v, 0)
	return buf.String()
}

func writeValue(buf *bytes.Buffer, v syncvalue.Value, depth int) {
	indent := func() {
		for i := 0; i < depth; i++ {
			buf.WriteString("  ")
		}
	}
	switch v.Kind() {
	case syncvalue.KindNull:
		buf.WriteString("null")
	case syncvalue.KindID:
		id, _ := v.AsID()
		fmt.Fprintf(buf, "id(%s)", id)
	case syncvalue.KindInt64:
		n, _ := v.AsInt64()
		fmt.Fprintf(buf, "int64(%d)", n)
	case syncvalue.KindFloat64:
		n, _ := v.AsFloat64()
		fmt.Fprintf(buf, "float64(%v)", n)
	case syncvalue.KindBoolean:
		b, _ := v.AsBoolean()
		fmt.Fprintf(buf, "bool(%t)", b)
	case syncvalue.KindString:
		s, _ := v.AsString()
		fmt.Fprintf(buf, "string(%q)", s)
	case syncvalue.KindBytes:
		b, _ := v.AsBytes()
		fmt.Fprintf(buf, "bytes(%d bytes)", len(b))
	case syncvalue.KindArray:
		arr, _ := v.AsArray()
		buf.WriteString("array[\n")
		for _, e := range arr {
			indent()
			buf.WriteString("  ")
			writeValue(buf, e, depth+1)
			buf.WriteString("\n")
		}
		indent()
		buf.WriteString("]")
	case syncvalue.KindSet:
		items, _ := v.AsSet()
		fmt.Fprintf(buf, "set(%d items)", len(items))
	case syncvalue.KindMap:
		entries, _ := v.AsMap()
		fmt.Fprintf(buf, "map(%d entries)", len(entries))
	case syncvalue.KindObject:
		obj, _ := v.AsObject()
		fmt.Fprintf(buf, "object(%d fields)", len(obj))
	}
}
