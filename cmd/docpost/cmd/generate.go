package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iabetor/docpost/internal/logger"
	"github.com/iabetor/docpost/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	sourceURL string
	feedURL   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "抓取页面并生成一篇文章",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sourceURL != "" {
			cfg.Source.URL = sourceURL
			cfg.Source.FeedURL = ""
		}
		if feedURL != "" {
			cfg.Source.FeedURL = feedURL
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 监听系统信号，中止当前运行
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				logger.Warnf("[main] 收到信号 %v，正在中止...", sig)
				cancel()
			case <-ctx.Done():
			}
		}()

		p := pipeline.New(cfg)
		defer p.Close()

		res, err := p.Run(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				printError("生成失败", err)
			}
			return err
		}

		fmt.Printf("文章: %s\n", res.PostPath)
		switch {
		case res.Audio == nil:
			fmt.Println("音频: 无")
		case res.Audio.Placeholder:
			fmt.Printf("音频: %s（占位）\n", res.Audio.Path)
		default:
			fmt.Printf("音频: %s (%s)\n", res.Audio.Path, res.Audio.Backend)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&sourceURL, "url", "", "要抓取的文档页面（覆盖配置）")
	generateCmd.Flags().StringVar(&feedURL, "feed", "", "RSS/Atom 订阅源，取最新一篇（覆盖配置）")
	rootCmd.AddCommand(generateCmd)
}
