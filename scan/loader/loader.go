package loader

import (
	"bufio"
	"os"
	"strings"

	"claimscan/internal/shared/logger"
)

// LoadLines 从行分隔文本文件加载条目：逐行去除首尾空白（兼容 CRLF），
// 丢弃空行，保留文件中的顺序。文件缺失时返回错误。
func LoadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LoadValidSet 加载既往扫描确认有效的服务器集合。
// 文件缺失按空集合处理，不作为错误。
func LoadValidSet(path string) (map[string]struct{}, error) {
	l := logger.WithComponent("Scan/Loader")

	lines, err := LoadLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.Info().Str("path", path).Msg("Valid list not found, starting with an empty set.")
			return make(map[string]struct{}), nil
		}
		return nil, err
	}

	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		set[line] = struct{}{}
	}

	l.Info().Int("count", len(set)).Str("path", path).Msg("Loaded previously confirmed servers.")
	return set, nil
}
