package writer

import (
	"fmt"
	"os"
	"strings"

	"claimscan/internal/shared/logger"
	"claimscan/internal/shared/types"
)

const delimiter = "|"

// Writer 将探测结果追加到三个结果文件。
// valid 文件只追加、从不截断，以支持跨次运行去重；
// novalid 与 timeout 文件在每次运行开始时清空。
type Writer struct {
	valid   *os.File
	novalid *os.File
	timeout *os.File
}

// Open 打开（必要时创建）三个结果文件。
func Open(cfg types.ScannerConf) (*Writer, error) {
	l := logger.WithComponent("Scan/Writer")

	valid, err := os.OpenFile(cfg.ValidFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open valid file: %w", err)
	}

	novalid, err := os.OpenFile(cfg.NovalidFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		valid.Close()
		return nil, fmt.Errorf("failed to open novalid file: %w", err)
	}

	timeout, err := os.OpenFile(cfg.TimeoutFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		valid.Close()
		novalid.Close()
		return nil, fmt.Errorf("failed to open timeout file: %w", err)
	}

	l.Info().
		Str("valid", cfg.ValidFile).
		Str("novalid", cfg.NovalidFile).
		Str("timeout", cfg.TimeoutFile).
		Msg("Result files ready.")

	return &Writer{valid: valid, novalid: novalid, timeout: timeout}, nil
}

// WriteValid 追加一行已确认的服务器地址。
func (w *Writer) WriteValid(server string) error {
	_, err := w.valid.WriteString(server + "\n")
	return err
}

// WriteNovalid 追加一行 server|wallet|detail。
func (w *Writer) WriteNovalid(server, wallet, detail string) error {
	_, err := w.novalid.WriteString(strings.Join([]string{server, wallet, detail}, delimiter) + "\n")
	return err
}

// WriteTimeout 追加一行 server|detail。
func (w *Writer) WriteTimeout(server, detail string) error {
	_, err := w.timeout.WriteString(strings.Join([]string{server, detail}, delimiter) + "\n")
	return err
}

// Close closes all three result files.
func (w *Writer) Close() {
	w.valid.Close()
	w.novalid.Close()
	w.timeout.Close()
}
