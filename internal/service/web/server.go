package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"claimscan/internal/shared/logger"
	"claimscan/internal/shared/types"
)

// basicAuthMiddleware 检查 user 和 password 是否已配置。
// 如果配置了，它将强制执行 HTTP Basic Authentication。
func basicAuthMiddleware(next http.Handler, user, pass string) http.Handler {
	// 如果用户名或密码未设置，则不启用认证，直接返回原始处理器
	if user == "" || pass == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized.\n"))
			return
		}
		// 认证成功，继续处理请求
		next.ServeHTTP(w, r)
	})
}

// StartServer 启动实时状态服务：/ws 推送探测结果，/api/status 返回快照。
// web 端口未配置时直接返回。
func StartServer(wg *sync.WaitGroup, cfg *types.Config, hub *Hub) {
	if cfg.WebConf.Port <= 0 {
		logger.Debug().Msg("Status page is disabled (web port is 0 or not set).")
		return
	}

	mux := http.NewServeMux()

	// --- WebSocket Endpoint (公开，无需认证) ---
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})

	statusHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.Snapshot()); err != nil {
			logger.Error().Err(err).Msg("Failed to encode status snapshot.")
		}
	})
	mux.Handle("/api/status", basicAuthMiddleware(statusHandler, cfg.WebConf.User, cfg.WebConf.Password))

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.WebConf.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error().Err(err).Str("addr", addr).Msg("Failed to start status page listener.")
		return
	}

	logger.Info().Msgf("Status page is listening on http://%s", addr)

	go hub.Run()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := http.Serve(listener, mux); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Status page server error.")
		}
	}()
}
