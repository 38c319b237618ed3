package model

import "time"

// Classification 是单次探测的结果分类，是整个模块的核心数据结构。
type Classification string

const (
	// ClassValid: the server returned at least one claimable balance record
	// for the wallet. Detail carries the amount of the first record.
	ClassValid Classification = "valid"
	// ClassNovalid: the server answered, but with an error status or a body
	// that does not carry claimable balance records. Detail carries the reason.
	ClassNovalid Classification = "novalid"
	// ClassTimeout: the request never completed — either the probe deadline
	// expired or the transport failed outright. Detail carries the reason.
	ClassTimeout Classification = "timeout"
)

// ProbeResult holds the outcome of one (server, wallet) probe.
type ProbeResult struct {
	Server  string         `json:"server"`
	Wallet  string         `json:"wallet"`
	Class   Classification `json:"class"`
	Detail  string         `json:"detail"`
	Latency time.Duration  `json:"latency"`
}

// Counters accumulates per-classification totals across a run.
type Counters struct {
	Valid   int `json:"valid"`
	Novalid int `json:"novalid"`
	Timeout int `json:"timeout"`
}

// Add bumps the counter matching the classification.
func (c *Counters) Add(class Classification) {
	switch class {
	case ClassValid:
		c.Valid++
	case ClassNovalid:
		c.Novalid++
	case ClassTimeout:
		c.Timeout++
	}
}

// Total is the number of probes actually issued.
func (c *Counters) Total() int {
	return c.Valid + c.Novalid + c.Timeout
}
