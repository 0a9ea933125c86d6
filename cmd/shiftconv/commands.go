package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lilo791027/banbiao-auto2/internal/config"
	"github.com/lilo791027/banbiao-auto2/internal/model"
	"github.com/lilo791027/banbiao-auto2/internal/service/excel"
	"github.com/lilo791027/banbiao-auto2/internal/service/schedule"
)

// convertOptions convert 子命令参数
type convertOptions struct {
	shift     string
	roster    string
	out       string
	encoding  string
	unmatched string
	dateSpan  string
	autofill  string
}

func newConvertCmd() *cobra.Command {
	opts := convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a shift workbook and roster into the result workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			summary, err := runConvert(cfg, opts, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.shift, "shift", "", "Shift workbook (.xlsx/.xls)")
	cmd.Flags().StringVar(&opts.roster, "roster", "", "Employee roster (.xlsx/.xls/.csv)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output workbook path")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Roster CSV encoding: auto, utf-8, big5")
	cmd.Flags().StringVar(&opts.unmatched, "unmatched", "", "Unmatched names: keep or drop")
	cmd.Flags().StringVar(&opts.dateSpan, "date-span", "", "Summary dates: observed or month")
	cmd.Flags().StringVar(&opts.autofill, "autofill", "", "Fill empty summary cells with placeholders: true or false")
	cmd.MarkFlagRequired("shift")
	cmd.MarkFlagRequired("roster")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newSheetsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List worksheets and how each one is recognized",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheets(file, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Workbook to inspect")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists", out)
			}
			if err := config.SaveConfig(config.DefaultConfig(), out); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", config.FileName, "Destination path")
	return cmd
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, _, err := config.LoadConfigFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyOverrides 命令行参数覆盖配置中的规则
func applyOverrides(rules model.RuleOptions, opts convertOptions) (model.RuleOptions, error) {
	if opts.unmatched != "" {
		p, ok := model.ParseUnmatchedPolicy(opts.unmatched)
		if !ok {
			return rules, fmt.Errorf("invalid --unmatched: %s", opts.unmatched)
		}
		rules.Unmatched = p
	}
	if opts.dateSpan != "" {
		span, ok := model.ParseDateSpan(opts.dateSpan)
		if !ok {
			return rules, fmt.Errorf("invalid --date-span: %s", opts.dateSpan)
		}
		rules.DateSpan = span
	}
	if opts.autofill != "" {
		b, err := strconv.ParseBool(opts.autofill)
		if err != nil {
			return rules, fmt.Errorf("invalid --autofill: %w", err)
		}
		rules.Autofill = b
	}
	return rules, nil
}

// runConvert 执行一次批量转换，返回一行统计信息
func runConvert(cfg *config.AppConfig, opts convertOptions, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.shift == "" || opts.roster == "" || opts.out == "" {
		return "", errors.New("--shift, --roster and --out are required")
	}

	rules, err := applyOverrides(cfg.RuleOptions(), opts)
	if err != nil {
		return "", err
	}

	grids, err := loadFile(opts.shift, func(r io.Reader) ([]model.Grid, error) {
		return excel.LoadShiftGrids(r, opts.shift)
	})
	if err != nil {
		return "", fmt.Errorf("failed to load shift workbook: %w", err)
	}

	encoding := opts.encoding
	if encoding == "" {
		encoding = cfg.Roster.Encoding
	}
	roster, err := loadFile(opts.roster, func(r io.Reader) (*model.Roster, error) {
		return excel.LoadRoster(r, opts.roster, encoding)
	})
	if err != nil {
		return "", fmt.Errorf("failed to load roster: %w", err)
	}

	result := schedule.NewPipeline(rules, logger).Run(schedule.Input{Grids: grids, Roster: roster}, func(e schedule.ProgressEvent) {
		logger.Debug("progress", zap.Int("percent", e.Percent), zap.String("stage", e.Stage), zap.String("sheet", e.Sheet))
	})

	file, err := excel.NewExporter().Export(result)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := file.SaveAs(opts.out); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", opts.out, err)
	}

	return fmt.Sprintf("run %s: %d sheets, %d shift records, %d analysis rows, %d summary rows, %d unmatched -> %s",
		result.RunID, len(grids), len(result.Shifts), len(result.Analysis), len(result.Summary.Rows), len(result.Unmatched), opts.out), nil
}

// runSheets 打印工作簿中每个工作表的识别结果
func runSheets(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	p := excel.NewParser()
	if err := p.LoadFile(f); err != nil {
		return err
	}
	defer p.Close()

	sheets, err := p.RecognizeSheets()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tTYPE\tSCORE\tMISSING")
	for _, s := range sheets {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%v\n", s.SheetName, s.Type, s.Score, s.MissingFields)
	}
	return tw.Flush()
}

func loadFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return load(f)
}
