package scan

import (
	"fmt"

	"claimscan/internal/shared/logger"
	"claimscan/scan/model"
)

// Prober 对单个 (server, wallet) 组合执行一次探测并给出分类。
type Prober interface {
	Probe(server, wallet string) model.ProbeResult
}

// ResultWriter 将分类结果持久化。
type ResultWriter interface {
	WriteValid(server string) error
	WriteNovalid(server, wallet, detail string) error
	WriteTimeout(server, detail string) error
}

// Broadcaster pushes live probe results to observers. The scanner never
// blocks on it; implementations own their cross-goroutine state.
type Broadcaster interface {
	BroadcastProbeResult(result model.ProbeResult)
	BroadcastCounters(counters model.Counters)
}

// Scanner 是扫描的总控制器：外层遍历服务器，内层遍历钱包，
// 单线程顺序执行，同一时刻最多一个未完成的探测请求。
type Scanner struct {
	prober  Prober
	writer  ResultWriter
	hub     Broadcaster
	servers []string
	wallets []string

	// validSet holds servers confirmed valid, loaded at startup and grown
	// during the run. A server present here is never probed again.
	validSet map[string]struct{}
	counters model.Counters
}

// New creates a Scanner. validSet may be empty but not nil.
func New(prober Prober, writer ResultWriter, servers, wallets []string, validSet map[string]struct{}) *Scanner {
	return &Scanner{
		prober:   prober,
		writer:   writer,
		servers:  servers,
		wallets:  wallets,
		validSet: validSet,
	}
}

// SetBroadcaster attaches an optional live-status observer.
func (s *Scanner) SetBroadcaster(hub Broadcaster) {
	s.hub = hub
}

// Run processes every server and returns the aggregate counters. A server
// already confirmed valid is skipped with no output and no counter change.
// Wallet iteration stops at the first valid hit per server.
func (s *Scanner) Run() (model.Counters, error) {
	l := logger.WithComponent("Scan/Driver")
	l.Info().Int("servers", len(s.servers)).Int("wallets", len(s.wallets)).Msg("Starting scan...")

	for _, server := range s.servers {
		if _, ok := s.validSet[server]; ok {
			l.Info().Str("server", server).Msg("Already confirmed valid, skipping.")
			continue
		}
		if err := s.scanServer(server); err != nil {
			return s.counters, err
		}
	}

	l.Info().
		Int("valid", s.counters.Valid).
		Int("novalid", s.counters.Novalid).
		Int("timeout", s.counters.Timeout).
		Int("total_probes", s.counters.Total()).
		Msg("Scan finished.")

	if s.hub != nil {
		s.hub.BroadcastCounters(s.counters)
	}
	return s.counters, nil
}

func (s *Scanner) scanServer(server string) error {
	l := logger.WithComponent("Scan/Driver")

	for _, wallet := range s.wallets {
		result := s.prober.Probe(server, wallet)
		if err := s.record(result); err != nil {
			return err
		}
		if result.Class == model.ClassValid {
			return nil
		}
	}

	l.Debug().Str("server", server).Msg("Wallet list exhausted, no claimable balance found.")
	return nil
}

// record persists one probe outcome, updates counters and the in-memory
// valid set, and notifies the hub. A write failure aborts the run; lines
// already written stay on disk.
func (s *Scanner) record(result model.ProbeResult) error {
	l := logger.WithComponent("Scan/Driver")

	var err error
	switch result.Class {
	case model.ClassValid:
		l.Info().
			Str("server", result.Server).
			Str("wallet", result.Wallet).
			Str("amount", result.Detail).
			Dur("latency", result.Latency).
			Msg("Claimable balance found.")
		err = s.writer.WriteValid(result.Server)
		s.validSet[result.Server] = struct{}{}
	case model.ClassNovalid:
		l.Info().
			Str("server", result.Server).
			Str("wallet", result.Wallet).
			Str("reason", result.Detail).
			Msg("No claimable balance.")
		err = s.writer.WriteNovalid(result.Server, result.Wallet, result.Detail)
	case model.ClassTimeout:
		l.Warn().
			Str("server", result.Server).
			Str("reason", result.Detail).
			Msg("Server unreachable.")
		err = s.writer.WriteTimeout(result.Server, result.Detail)
	default:
		return fmt.Errorf("unknown classification %q", result.Class)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s result for %s: %w", result.Class, result.Server, err)
	}

	s.counters.Add(result.Class)
	if s.hub != nil {
		s.hub.BroadcastProbeResult(result)
	}
	return nil
}
