package harvester

import (
	"fmt"
	"os"
	"strings"

	"claimscan/internal/shared/logger"
	"claimscan/scan/loader"
)

// Harvester 接口定义了从候选源采集服务器地址的行为。
type Harvester interface {
	// Harvest 执行采集操作，返回 "host" 或 "host:port" 形式的候选地址。
	// 实现者只负责采集和初步解析，不进行探测。
	Harvest() ([]string, error)

	// Name 返回采集器的名称，用于日志记录。
	Name() string
}

// Collect runs every harvester in order and returns the deduplicated union
// of their candidates. A failing source is logged and skipped.
func Collect(harvesters []Harvester) []string {
	l := logger.WithComponent("Scan/Harvester")

	seen := make(map[string]struct{})
	var candidates []string
	for _, h := range harvesters {
		addrs, err := h.Harvest()
		if err != nil {
			l.Warn().Err(err).Str("source", h.Name()).Msg("Harvester failed.")
			continue
		}
		for _, addr := range addrs {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			candidates = append(candidates, addr)
		}
	}

	l.Info().Int("count", len(candidates)).Int("sources", len(harvesters)).Msg("Harvest finished.")
	return candidates
}

// AppendNew 将尚未出现在服务器文件中的候选地址追加到该文件末尾，
// 返回实际新增的条数。文件缺失时会被创建。
func AppendNew(path string, candidates []string) (int, error) {
	l := logger.WithComponent("Scan/Harvester")

	existing := make(map[string]struct{})
	lines, err := loader.LoadLines(path)
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	for _, line := range lines {
		existing[line] = struct{}{}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open servers file: %w", err)
	}
	defer file.Close()

	added := 0
	for _, addr := range candidates {
		if _, ok := existing[addr]; ok {
			continue
		}
		if _, err := file.WriteString(addr + "\n"); err != nil {
			return added, err
		}
		existing[addr] = struct{}{}
		added++
	}

	l.Info().Int("added", added).Str("path", path).Msg("Appended new candidate servers.")
	return added, nil
}
