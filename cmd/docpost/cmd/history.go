package cmd

import (
	"fmt"

	"github.com/iabetor/docpost/internal/database"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "列出最近的生成记录",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.History.DBPath)
		if err != nil {
			printError("打开数据库失败", err)
			return err
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			printError("数据库迁移失败", err)
			return err
		}

		runs, err := db.RecentRuns(historyLimit)
		if err != nil {
			printError("读取记录失败", err)
			return err
		}
		if len(runs) == 0 {
			fmt.Println("暂无记录")
			return nil
		}

		for _, r := range runs {
			audio := "无音频"
			switch {
			case r.Placeholder:
				audio = r.AudioPath + "（占位）"
			case r.AudioPath != "":
				audio = fmt.Sprintf("%s (%s)", r.AudioPath, r.AudioBackend)
			}
			fmt.Printf("%s  %-30s  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Title, r.PostPath)
			fmt.Printf("    来源: %s\n    音频: %s\n", r.URL, audio)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "显示条数")
	rootCmd.AddCommand(historyCmd)
}
