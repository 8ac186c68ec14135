// pnu-lookup is the command line companion to the resolver service: load a
// reference table, resolve one query, print the outcome.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/config"
	"github.com/pnu-resolver/app/services"
	"github.com/pnu-resolver/internal/index"
)

var (
	query    string
	csvPath  string
	encoding string
)

var rootCmd = &cobra.Command{
	Use:   "pnu-lookup",
	Short: "Resolve a Korean land address to its 19-digit PNU",
	RunE: func(cmd *cobra.Command, args []string) error {
		if query == "" && len(args) > 0 {
			query = args[0]
		}
		if query == "" {
			return fmt.Errorf("no query given, use -q or a positional argument")
		}

		rows, err := index.LoadCSV(csvPath, encoding)
		if err != nil {
			return fmt.Errorf("load reference table: %w", err)
		}

		logger := zap.NewNop()
		svc := services.NewResolveService(index.Build(rows), "cli", logger)

		record, err := svc.Resolve(query)
		if err != nil {
			return err
		}

		switch {
		case record.OK && record.Pnu != nil:
			fmt.Printf("[✓] PNU: %s\n", *record.Pnu)
			fmt.Printf("    법정동: %s (%s)\n", *record.Full, *record.AdmCd10)
			fmt.Printf("    본번-부번: %s-%s, 산여부: %s\n", *record.Bun, *record.Ji, *record.MtYn)
		case record.OK:
			fmt.Printf("[i] 법정동: %s (%s)\n", *record.Full, *record.AdmCd10)
			fmt.Println("    지번이 없어 PNU를 조합할 수 없습니다")
		case record.IsAmbiguous():
			fmt.Printf("[i] 후보가 여러 개입니다 (%s):\n", record.Reason)
			for _, cand := range record.Candidates {
				fmt.Printf("    - %s\n", cand)
			}
		default:
			fmt.Printf("[!] 찾을 수 없습니다 (%s): %s\n", record.Reason, record.Normalized)
			for _, s := range record.Suggestions {
				fmt.Printf("    혹시: %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "address or district name to resolve")
	rootCmd.Flags().StringVar(&csvPath, "csv", "data/pnu_code.csv", "reference table path")
	rootCmd.Flags().StringVar(&encoding, "encoding", "utf-8", "reference table encoding (utf-8 or cp949)")
	rootCmd.Flags().BoolVar(&config.C.Romanize, "romanize", true, "include a romanized district name")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "오류:", err)
		os.Exit(1)
	}
}
