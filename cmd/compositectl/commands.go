package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"composite/pkg/composite"
	"composite/pkg/composite/codec"
)

// errNotEqual makes `equal` exit with status 1 without printing an error.
var errNotEqual = errors.New("documents differ")

const (
	formatAuto = "auto"
	formatJSON = "json"
	formatYAML = "yaml"
)

type rootOptions struct {
	format string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "compositectl",
		Short:         "Compare and deduplicate documents by structure",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", formatAuto,
		"input format: auto, json or yaml (auto picks by file extension)")

	root.AddCommand(newEqualCmd(opts), newDedupeCmd(opts))
	return root
}

func newEqualCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "equal A B",
		Short: "Report whether two documents are structurally equal",
		Long: `Decode two documents and print true when they have the same structure.
Object key order does not matter; array order does. Exits 1 when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readDocument(cmd, args[0], opts.format)
			if err != nil {
				return err
			}
			b, err := readDocument(cmd, args[1], opts.format)
			if err != nil {
				return err
			}
			equal := composite.Equal(a, b)
			fmt.Fprintln(cmd.OutOrStdout(), equal)
			if !equal {
				return errNotEqual
			}
			return nil
		},
	}
}

func newDedupeCmd(opts *rootOptions) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "dedupe FILE",
		Short: "Print the structurally distinct documents of a stream",
		Long: `Read a JSON array, a YAML sequence, JSON lines or a multi-document YAML
stream and print each distinct document once, as a JSON line, in first-seen
order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readStream(cmd, args[0], opts.format)
			if err != nil {
				return err
			}

			seen := composite.NewSet()
			out := cmd.OutOrStdout()
			for _, doc := range docs {
				if !seen.Insert(doc) {
					continue
				}
				line, err := codec.EncodeJSON(doc)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", line)
			}
			if stats {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d documents, %d distinct\n", len(docs), seen.Len())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "print document counts to stderr")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func resolveFormat(path, format string) (string, error) {
	switch format {
	case formatJSON, formatYAML:
		return format, nil
	case formatAuto:
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return formatYAML, nil
		}
		return formatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func readDocument(cmd *cobra.Command, path, format string) (any, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	format, err = resolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	if format == formatYAML {
		return codec.DecodeYAML(data)
	}
	return codec.DecodeJSON(data)
}

// readStream returns the documents of path. A stream holding a single array
// yields the array's elements.
func readStream(cmd *cobra.Command, path, format string) ([]any, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	format, err = resolveFormat(path, format)
	if err != nil {
		return nil, err
	}

	var docs []any
	collect := func(v any) error {
		docs = append(docs, v)
		return nil
	}
	if format == formatYAML {
		err = codec.DecodeYAMLStream(bytes.NewReader(data), collect)
	} else {
		err = codec.DecodeJSONStream(bytes.NewReader(data), collect)
	}
	if err != nil {
		return nil, err
	}

	if len(docs) == 1 {
		if c, ok := docs[0].(*composite.Value); ok {
			if elems, ok := codec.Elements(c); ok {
				return elems, nil
			}
		}
	}
	return docs, nil
}
