package harvester

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"claimscan/internal/shared/logger"
)

// addrPattern matches "host:port" with either an IPv4 address or a dotted
// hostname on the left side.
var addrPattern = regexp.MustCompile(`\b(\d{1,3}(?:\.\d{1,3}){3}|[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z]{2,}):(\d{2,5})\b`)

// PageGrepHarvester 实现了 Harvester 接口，用正则从任意页面正文中
// 提取 host:port 形式的候选服务器地址。
type PageGrepHarvester struct {
	url       string
	collector *colly.Collector
}

// NewPageGrepHarvester 创建一个新的 PageGrepHarvester 实例。
func NewPageGrepHarvester(url string) Harvester {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(20 * time.Second)

	return &PageGrepHarvester{
		url:       url,
		collector: c,
	}
}

func (h *PageGrepHarvester) Name() string {
	return "page-grep:" + h.url
}

func (h *PageGrepHarvester) Harvest() ([]string, error) {
	l := logger.WithComponent("Scan/Harvester")
	l.Info().Str("source", h.Name()).Msg("Starting harvest...")

	var addrs []string
	var mu sync.Mutex // OnResponse 回调中安全地追加

	h.collector.OnResponse(func(r *colly.Response) {
		matches := addrPattern.FindAllSubmatch(r.Body, -1)

		mu.Lock()
		defer mu.Unlock()

		for _, m := range matches {
			host := string(m[1])
			port, err := strconv.Atoi(string(m[2]))
			if err != nil || port <= 0 || port > 65535 {
				continue
			}
			addrs = append(addrs, fmt.Sprintf("%s:%d", host, port))
		}
	})

	if err := h.collector.Visit(h.url); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", h.Name(), err)
	}
	h.collector.Wait()

	l.Info().Int("count", len(addrs)).Str("source", h.Name()).Msg("Harvest finished.")
	return addrs, nil
}
