package publish

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	s3publish "github.com/omap-tiler/utrfill/internal/publish"
	"github.com/omap-tiler/utrfill/pkg/cmd/fill"
)

type publishInput struct {
	bucket  string
	region  string
	prefix  string
	logFile string
	dryRun  bool
}

var publishArgs publishInput
var publishCmd = &cobra.Command{
	Use:     "publish UTR.xlsx",
	Example: "utrfill publish UTR.xlsx --bucket qa-reports --prefix tiler/2026-10 --log test.log",
	Short:   "Publish a filled UTR (and its test log) to S3.",
	Args:    cobra.ExactArgs(1),
	RunE:    publishRun,
}

func init() {
	publishCmd.Flags().StringVar(&publishArgs.bucket, "bucket", "", "Destination S3 bucket.")
	publishCmd.Flags().StringVar(&publishArgs.region, "region", "us-east-1", "AWS region of the bucket.")
	publishCmd.Flags().StringVar(&publishArgs.prefix, "prefix", "", "Object key prefix.")
	publishCmd.Flags().StringVar(&publishArgs.logFile, "log", "", "Test log used to fill the UTR, uploaded next to it. Its status counters are attached as object metadata.")
	publishCmd.Flags().BoolVar(&publishArgs.dryRun, "dry-run", false, "Process the files and skip the upload.")
	_ = publishCmd.MarkFlagRequired("bucket")
}

func NewCmdPublish() *cobra.Command {
	return publishCmd
}

func publishRun(cmd *cobra.Command, args []string) error {
	workbook := args[0]
	if _, err := os.Stat(workbook); err != nil {
		return fmt.Errorf("workbook not found: %w", err)
	}

	files := []string{workbook}
	meta := map[string]string{}
	if publishArgs.logFile != "" {
		p, err := fill.ParseLogs(context.Background(), []string{publishArgs.logFile}, nil)
		if err != nil {
			return err
		}
		meta = Metadata(p.Results().Counts())
		files = append(files, publishArgs.logFile)
	}

	cfg := &s3publish.Config{
		Bucket: publishArgs.bucket,
		Region: publishArgs.region,
		Prefix: publishArgs.prefix,
		DryRun: publishArgs.dryRun,
	}
	uris, err := cfg.Upload(files, meta)
	if err != nil {
		return err
	}
	for _, uri := range uris {
		log.Infof("Published: %s", uri)
	}
	return nil
}
