package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aeps-agent.backend/internal/domain/entities"
	"aeps-agent.backend/pkg/npci"
)

type decodeOutput struct {
	Records []entities.NpciTransactionRecord `json:"records"`
	Skipped []npci.SkippedLine               `json:"skipped,omitempty"`
	Summary npci.Summary                     `json:"summary"`
}

func decodeStatementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode-statement [file]",
		Short: "Decode raw NPCI mini statement lines",
		Long: `Reads one raw mini statement line per input line from file, or stdin
when file is "-" or omitted, and prints the decoded records as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			lines, err := readLines(in)
			if err != nil {
				return fmt.Errorf("read statement: %w", err)
			}

			records, skipped := npci.DecodeWithReport(lines)
			if records == nil {
				records = []entities.NpciTransactionRecord{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(decodeOutput{
				Records: records,
				Skipped: skipped,
				Summary: npci.Summarise(records),
			})
		},
	}
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
