package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// browserCommand 各平台打开网址的命令
func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

// fallbackBrowsers 主要方式失败后依次尝试的命令
func fallbackBrowsers(goos string) []string {
	switch goos {
	case "windows":
		return []string{"explorer"}
	case "linux":
		return []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
	}
	return nil
}

// OpenBrowser 用默认浏览器打开上传页面，失败时尝试备选浏览器
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	err := exec.Command(name, args...).Start()
	if err == nil {
		return nil
	}

	for _, browser := range fallbackBrowsers(runtime.GOOS) {
		if exec.Command(browser, url).Start() == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to open browser: %w", err)
}

// FindAvailablePort 从 startPort 起查找可监听的端口，最多尝试 attempts 个
func FindAvailablePort(startPort, attempts int) (int, error) {
	for port := startPort; port < startPort+attempts && port <= 65535; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+attempts)
}
