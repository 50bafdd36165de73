package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// telegramAPIBase is overridable so tests can point the check at a local
// server.
var telegramAPIBase = "https://api.telegram.org"

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTelegram verifies the bot token against the getMe endpoint. It uses
// a 5-second timeout and a single attempt.
func CheckTelegram(ctx context.Context, token string) Result {
	const name = "Telegram"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/getMe", telegramAPIBase, token)
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body struct {
			Result struct {
				UserName string `json:"username"`
			} `json:"result"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Result.UserName != "" {
			return Result{Name: name, Passed: true, Detail: "@" + body.Result.UserName}
		}
		return Result{Name: name, Passed: true, Detail: "API reachable"}
	case http.StatusUnauthorized, http.StatusNotFound:
		return Result{Name: name, Detail: "auth failed (invalid token)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", resp.StatusCode)}
	}
}
