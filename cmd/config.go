package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/reviewloom-cli/internal/config"
	"github.com/KaramelBytes/reviewloom-cli/internal/dataset"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ReviewLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "text_column: %s\n", cfg.TextColumn)
		fmt.Fprintf(out, "date_column: %s\n", cfg.DateColumn)
		fmt.Fprintf(out, "group_column: %s\n", cfg.GroupColumn)
		fmt.Fprintf(out, "rating_column: %s\n", cfg.RatingColumn)
		fmt.Fprintf(out, "encoding: %s\n", cfg.Encoding)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		}
		fmt.Fprintf(out, "top_words: %d\n", cfg.TopWords)
		fmt.Fprintf(out, "cloud_words: %d\n", cfg.CloudWords)
		fmt.Fprintf(out, "document_top: %d\n", cfg.DocumentTop)
		fmt.Fprintf(out, "corpus_top: %d\n", cfg.CorpusTop)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		if cfg.StopWordsFile != "" {
			fmt.Fprintf(out, "stop_words_file: %s\n", cfg.StopWordsFile)
		}
		if len(cfg.ExtraStopWords) > 0 {
			fmt.Fprintf(out, "extra_stop_words: %s\n", strings.Join(cfg.ExtraStopWords, ","))
		}
		fmt.Fprintf(out, "snowball_stop_words: %t\n", cfg.SnowballStopWords)
		fmt.Fprintf(out, "stem: %t\n", cfg.Stem)
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	boolean := func() (bool, error) {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		return b, nil
	}
	var err error
	switch key {
	case "text_column":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("text_column cannot be empty")
		}
		c.TextColumn = val
	case "date_column":
		c.DateColumn = val
	case "group_column":
		c.GroupColumn = val
	case "rating_column":
		c.RatingColumn = val
	case "encoding":
		c.Encoding, err = dataset.ParseEncoding(val)
	case "delimiter":
		if _, err = dataset.ParseDelimiter(val); err == nil {
			c.Delimiter = val
		}
	case "max_rows":
		i, perr := strconv.Atoi(val)
		if perr != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "top_words":
		c.TopWords, err = positive()
	case "cloud_words":
		c.CloudWords, err = positive()
	case "document_top":
		c.DocumentTop, err = positive()
	case "corpus_top":
		c.CorpusTop, err = positive()
	case "sample_rows":
		i, perr := strconv.Atoi(val)
		if perr != nil || i < 0 {
			return fmt.Errorf("invalid int for sample_rows: %v", val)
		}
		c.SampleRows = i
	case "stop_words_file":
		c.StopWordsFile = val
	case "extra_stop_words":
		c.ExtraStopWords = nil
		for _, w := range strings.Split(val, ",") {
			if w = strings.TrimSpace(w); w != "" {
				c.ExtraStopWords = append(c.ExtraStopWords, w)
			}
		}
	case "snowball_stop_words":
		c.SnowballStopWords, err = boolean()
	case "stem":
		c.Stem, err = boolean()
	case "chart_width":
		c.ChartWidth, err = positive()
	case "chart_height":
		c.ChartHeight, err = positive()
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
