package cmd

import (
	"fmt"
	"os"

	"github.com/iabetor/docpost/internal/config"
	"github.com/iabetor/docpost/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docpost",
	Short: "把文档页面转换为带语音版本的 Zola 博客文章",
	Long: `docpost 抓取一篇文档页面，提取标题和正文，生成讲解与步骤，
依次尝试在线 TTS、espeak-ng 和 say 合成语音，最后写出 Zola 文章。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			printError("加载配置失败", err)
			return err
		}
		lc := cfg.ToLogger()
		if verbose {
			lc.Level = "debug"
		}
		if err := logger.Init(lc); err != nil {
			printError("初始化日志失败", err)
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute 运行根命令。
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（为空时使用默认配置）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "错误: %s: %v\n", msg, err)
}
