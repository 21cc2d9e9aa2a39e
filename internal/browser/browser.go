// Package browser opens URLs and local files with the platform's default handler.
package browser

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
)

var linuxOpeners = []string{"xdg-open", "x-www-browser", "www-browser", "firefox", "chromium", "google-chrome"}

// Open shows target, a URL or a file path, in the default application.
// It tries open-golang first and falls back to platform commands.
func Open(target string) error {
	target = normalizeTarget(target)
	if target == "" {
		return fmt.Errorf("nothing to open")
	}

	err := open.Run(target)
	if err == nil {
		log.Debug("opened target using open-golang")
		return nil
	}
	log.Debugf("open-golang failed: %v, trying platform-specific commands", err)

	name, args, err := openerCommand(runtime.GOOS, target, exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	log.Debugf("running command: %s %v", name, args)
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("failed to start opener command: %w", err)
	}
	return nil
}

// normalizeTarget turns relative file paths into absolute ones and leaves URLs alone.
func normalizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.Contains(target, "://") {
		return target
	}
	if abs, err := filepath.Abs(target); err == nil {
		return abs
	}
	return target
}

// openerCommand picks the command that opens target on goos.
func openerCommand(goos, target string, lookPath func(string) (string, error)) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, candidate := range linuxOpeners {
			if _, err := lookPath(candidate); err == nil {
				return candidate, []string{target}, nil
			}
		}
		return "", nil, fmt.Errorf("no suitable opener found on %s", goos)
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}
