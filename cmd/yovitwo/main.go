package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MaulidiahYasmin/yovitwo/internal/audit"
	"github.com/MaulidiahYasmin/yovitwo/internal/bot"
	"github.com/MaulidiahYasmin/yovitwo/internal/config"
	"github.com/MaulidiahYasmin/yovitwo/internal/identity"
	"github.com/MaulidiahYasmin/yovitwo/internal/server"
	"github.com/MaulidiahYasmin/yovitwo/internal/service"
	"github.com/MaulidiahYasmin/yovitwo/internal/store"
)

var (
	webhook = flag.Bool("webhook", false, "webhook 模式 (默认长轮询)")
	port    = flag.Int("port", 0, "webhook 服务端口 (覆盖配置文件)")
	backend = flag.String("backend", "", "表格后端 memory/excel/google (覆盖配置文件)")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  yovitwo - Visit Report Bot")
	fmt.Println("==========================================")

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *webhook {
		cfg.Telegram.Webhook = true
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *backend != "" {
		cfg.Sheet.Backend = *backend
	}
	if *dataDir != "" {
		cfg.App.DataDir = *dataDir
	}

	if cfg.Telegram.Token == "" {
		log.Fatal("BOT_TOKEN 未配置")
	}

	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("创建数据目录失败: %v", err)
	}
	fmt.Printf("数据目录: %s\n", dir)

	// 初始化表格存储
	st, err := buildStore(cfg, dir)
	if err != nil {
		log.Fatalf("初始化表格存储失败: %v", err)
	}
	fmt.Printf("表格后端: %s\n", cfg.Sheet.Backend)

	// 建表/修复表头
	if err := service.SetupSheets(st); err != nil {
		log.Fatalf("初始化表头失败: %v", err)
	}

	// 审计日志（尽力而为，打不开只降级不退出）
	var auditLog *audit.Log
	if auditLog, err = audit.Open(filepath.Join(dir, "yovitwo.db")); err != nil {
		log.Printf("打开审计库失败，审计已停用: %v", err)
		auditLog = nil
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Printf("时区 %s 无效，使用本地时区: %v", cfg.App.Timezone, err)
		loc = time.Local
	}

	svc := service.New(st, identity.Policy(cfg.Identity.Policy), auditLog, loc)

	b, err := bot.New(cfg.Telegram.Token, svc)
	if err != nil {
		log.Fatalf("连接 Telegram 失败: %v", err)
	}
	fmt.Printf("已登录: @%s\n", b.Username())

	if cfg.Telegram.Webhook {
		srv := server.NewServer(cfg, svc, b)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		go func() {
			fmt.Printf("webhook 服务启动中，监听端口 %d ...\n", cfg.Server.Port)
			if err := srv.Run(addr); err != nil {
				log.Fatalf("服务启动失败: %v", err)
			}
		}()
	} else {
		go func() {
			fmt.Println("长轮询已启动...")
			b.Run()
		}()
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if auditLog != nil {
		if err := auditLog.Close(); err != nil {
			log.Printf("关闭审计库失败: %v", err)
		}
	}
	if closer, ok := st.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("关闭表格存储失败: %v", err)
		}
	}
}

// buildStore 按配置创建表格后端
func buildStore(cfg *config.AppConfig, dataDir string) (store.SheetStore, error) {
	switch cfg.Sheet.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "excel", "":
		path := cfg.Sheet.ExcelPath
		if path == "" {
			path = filepath.Join(dataDir, "yovitwo.xlsx")
		}
		return store.NewExcelStore(path)
	case "google":
		if cfg.Sheet.SpreadsheetID == "" {
			return nil, fmt.Errorf("SHEET_ID 未配置")
		}
		if cfg.Sheet.CredentialsFile == "" {
			return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON 未配置")
		}
		if _, err := os.Stat(cfg.Sheet.CredentialsFile); err != nil {
			return nil, fmt.Errorf("credentials 文件不存在: %s", cfg.Sheet.CredentialsFile)
		}
		return store.NewGoogleSheetStore(context.Background(), cfg.Sheet.SpreadsheetID, cfg.Sheet.CredentialsFile)
	default:
		return nil, fmt.Errorf("未知表格后端: %s", cfg.Sheet.Backend)
	}
}
