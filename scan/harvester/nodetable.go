package harvester

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"claimscan/internal/shared/logger"
)

// NodeTableHarvester 实现了 Harvester 接口，从一张 HTML 表格页面采集
// 候选服务器：每行前两列依次为 host 与 port。
type NodeTableHarvester struct {
	url    string
	client *http.Client
}

// NewNodeTableHarvester 创建一个新的实例。
func NewNodeTableHarvester(url string) Harvester {
	return &NodeTableHarvester{
		url: url,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (h *NodeTableHarvester) Name() string {
	return "node-table:" + h.url
}

func (h *NodeTableHarvester) Harvest() ([]string, error) {
	l := logger.WithComponent("Scan/Harvester")
	l.Info().Str("source", h.Name()).Msg("Starting harvest...")

	req, err := http.NewRequest("GET", h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", h.Name(), err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page for %s: %w", h.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("received non-200 status code (%d) from %s", resp.StatusCode, h.Name())
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for %s: %w", h.Name(), err)
	}

	var addrs []string
	doc.Find("table tbody tr").Each(func(j int, sel *goquery.Selection) {
		host := strings.TrimSpace(sel.Find("td").Eq(0).Text())
		portStr := strings.TrimSpace(sel.Find("td").Eq(1).Text())

		if host == "" {
			return
		}
		if portStr == "" {
			addrs = append(addrs, host)
			return
		}

		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			l.Warn().Str("host", host).Str("port", portStr).Msg("Failed to parse port, skipping.")
			return
		}
		addrs = append(addrs, fmt.Sprintf("%s:%d", host, port))
	})

	l.Info().Int("count", len(addrs)).Str("source", h.Name()).Msg("Harvest finished.")
	return addrs, nil
}
