package export

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	appexport "voicescribe/internal/app/export"
	"voicescribe/internal/app/repository/sqlite"
	"voicescribe/internal/config"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transcripts to excel",
	Long: `Export stored transcripts to excel.

Reads every transcript record from the local sqlite database and writes them
to a single xlsx file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.LoadEnv(); err != nil {
			log.Fatal(err)
		}

		dbPath := os.Getenv("SQLITE_PATH")
		if dbPath == "" {
			dbPath = "data/voicescribe.db"
		}
		conn, err := sqlite.Open(dbPath)
		if err != nil {
			log.Fatal(err)
		}
		db := sqlite.NewSQLiteDB(conn)
		defer db.Close()

		records, err := db.GetAll(context.Background())
		if err != nil {
			log.Fatal(err)
		}

		if err := appexport.ToExcel(records, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, exported %d records to: %v\n", len(records), outputFilePath)
	},
}
