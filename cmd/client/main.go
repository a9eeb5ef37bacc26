package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/click-arena/internal/client"
	"github.com/palemoky/click-arena/internal/config"
	"github.com/palemoky/click-arena/internal/logger"
	"github.com/palemoky/click-arena/internal/profile"
	"github.com/palemoky/click-arena/internal/transport"
	"github.com/palemoky/click-arena/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	serverURL := flag.String("server", "", "服务器地址（覆盖配置文件）")
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
	}
	defer logger.Close()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	prof, err := profile.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取本地资料失败: %v\n", err)
		os.Exit(1)
	}

	svc := transport.NewClient(cfg.Server.BaseURL, cfg.Server.RequestTimeoutDuration())
	ctrl := client.NewController(svc, cfg.Client.ChatHistoryLimit, cfg.Client.PollIntervalDuration())

	model := ui.NewAppModel(ctrl, prof, cfg.Client.Sound)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.LogError("client exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "启动客户端时出错: %v\n", err)
		os.Exit(1)
	}
}
