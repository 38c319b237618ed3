package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"claimscan/internal/service/web"
	"claimscan/internal/shared/config"
	"claimscan/internal/shared/logger"
	"claimscan/internal/shared/types"
	"claimscan/scan"
	"claimscan/scan/harvester"
	"claimscan/scan/loader"
	"claimscan/scan/prober"
	"claimscan/scan/writer"
)

func main() {
	configPath := flag.String("config", "claimscan.ini", "Path to config file (optional)")
	harvest := flag.Bool("harvest", false, "Harvest candidate servers from configured sources and exit")
	flag.Parse()

	// 1. 加载配置（文件缺失时使用内置默认值）
	cfg, err := config.Load(*configPath)
	if err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		os.Exit(1)
	}

	// 1.1 初始化日志系统
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.WithRunID(uuid.NewString())

	if *harvest {
		runHarvest(cfg)
		return
	}

	runScan(cfg)
}

// runHarvest 从配置的采集源收集候选服务器并追加到服务器文件。
func runHarvest(cfg *types.Config) {
	var harvesters []harvester.Harvester
	for _, u := range cfg.HarvestConf.TableURLs {
		harvesters = append(harvesters, harvester.NewNodeTableHarvester(u))
	}
	for _, u := range cfg.HarvestConf.GrepURLs {
		harvesters = append(harvesters, harvester.NewPageGrepHarvester(u))
	}
	if len(harvesters) == 0 {
		logger.Fatal().Msg("No harvest sources configured ([harvest] table_urls / grep_urls).")
	}

	candidates := harvester.Collect(harvesters)
	added, err := harvester.AppendNew(cfg.ScannerConf.ServersFile, candidates)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to append harvested servers.")
	}
	logger.Info().Int("added", added).Str("path", cfg.ScannerConf.ServersFile).Msg("Harvest complete.")
}

// runScan 执行一次完整的顺序扫描。
func runScan(cfg *types.Config) {
	servers, err := loader.LoadLines(cfg.ScannerConf.ServersFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ScannerConf.ServersFile).Msg("Failed to load servers file.")
	}
	if len(servers) == 0 {
		logger.Fatal().Str("path", cfg.ScannerConf.ServersFile).Msg("Servers file is empty.")
	}

	wallets, err := loader.LoadLines(cfg.ScannerConf.WalletsFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ScannerConf.WalletsFile).Msg("Failed to load wallets file.")
	}
	if len(wallets) == 0 {
		logger.Fatal().Str("path", cfg.ScannerConf.WalletsFile).Msg("Wallets file is empty.")
	}

	validSet, err := loader.LoadValidSet(cfg.ScannerConf.ValidFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ScannerConf.ValidFile).Msg("Failed to load valid list.")
	}

	p, err := prober.New(cfg.ScannerConf)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create prober.")
	}

	w, err := writer.Open(cfg.ScannerConf)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open result files.")
	}
	defer w.Close()

	scanner := scan.New(p, w, servers, wallets, validSet)

	var wg sync.WaitGroup
	if cfg.WebConf.Port > 0 {
		hub := web.NewHub()
		web.StartServer(&wg, cfg, hub)
		scanner.SetBroadcaster(hub)
	}

	if _, err := scanner.Run(); err != nil {
		logger.Fatal().Err(err).Msg("Scan aborted.")
	}
}
