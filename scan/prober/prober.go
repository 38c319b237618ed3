package prober

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"claimscan/internal/shared/types"
	"claimscan/scan/model"
)

const (
	balancesPath  = "/claimable_balances"
	claimantParam = "claimant"
)

// claimableBalancesPage 描述探测端点的成功响应体。
// 记录位于 _embedded.records 之下，每条记录可选携带 asset 与 amount。
type claimableBalancesPage struct {
	Embedded struct {
		Records []claimableBalanceRecord `json:"records"`
	} `json:"_embedded"`
}

type claimableBalanceRecord struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

// Prober issues one HTTP GET per (server, wallet) pair and classifies the
// outcome. It holds no state between probes beyond the shared client.
type Prober struct {
	client      *http.Client
	defaultPort int
	timeout     time.Duration
}

// New creates a Prober from the scanner configuration. When cfg.Socks5Proxy
// is set, all probe traffic is dialed through it.
func New(cfg types.ScannerConf) (*Prober, error) {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
		IdleConnTimeout:       timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if cfg.Socks5Proxy != "" {
		socksDialer, err := proxy.SOCKS5("tcp", cfg.Socks5Proxy, nil, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := socksDialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
		}
		transport.DialContext = contextDialer.DialContext
	}

	return &Prober{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		defaultPort: cfg.DefaultPort,
		timeout:     timeout,
	}, nil
}

// BuildURL composes the probe URL for a server and wallet. A server string
// already containing a colon is used verbatim as host:port, otherwise the
// default port is appended. The wallet is percent-encoded into the claimant
// query parameter.
func (p *Prober) BuildURL(server, wallet string) string {
	host := server
	if !strings.Contains(server, ":") {
		host = fmt.Sprintf("%s:%d", server, p.defaultPort)
	}

	u := url.URL{
		Scheme:   "http",
		Host:     host,
		Path:     balancesPath,
		RawQuery: url.Values{claimantParam: {wallet}}.Encode(),
	}
	return u.String()
}

// Probe performs a single GET and classifies the response. Per-probe errors
// are folded into the classification and never returned upward.
func (p *Prober) Probe(server, wallet string) model.ProbeResult {
	startTime := time.Now()

	result := model.ProbeResult{
		Server: server,
		Wallet: wallet,
	}

	resp, err := p.client.Get(p.BuildURL(server, wallet))
	if err != nil {
		result.Class = model.ClassTimeout
		if isTimeout(err) {
			result.Detail = "fetch timeout"
		} else {
			result.Detail = err.Error()
		}
		result.Latency = time.Since(startTime)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Class = model.ClassNovalid
		result.Detail = fmt.Sprintf("status %d", resp.StatusCode)
		result.Latency = time.Since(startTime)
		return result
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Class = model.ClassTimeout
		if isTimeout(err) {
			result.Detail = "fetch timeout"
		} else {
			result.Detail = err.Error()
		}
		result.Latency = time.Since(startTime)
		return result
	}

	result.Class, result.Detail = classifyBody(body)
	result.Latency = time.Since(startTime)
	return result
}

// classifyBody decides between valid and the novalid sub-cases. The marker
// check before JSON parsing is a fast-path filter and keeps the distinct
// details for marker-less and unparseable bodies.
func classifyBody(body []byte) (model.Classification, string) {
	if !bytes.Contains(body, []byte("_embedded")) || !bytes.Contains(body, []byte("records")) {
		return model.ClassNovalid, "no embedded/records in response"
	}

	var page claimableBalancesPage
	if err := json.Unmarshal(body, &page); err != nil {
		return model.ClassNovalid, "non-json response"
	}

	records := page.Embedded.Records
	if len(records) > 0 && records[0].Asset != "" && records[0].Amount != "" {
		return model.ClassValid, records[0].Amount
	}

	return model.ClassNovalid, "structure mismatch"
}

// isTimeout reports whether the request was aborted by the probe deadline,
// as opposed to failing for any other transport reason.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
