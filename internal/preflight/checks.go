package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"warscout/internal/config"
)

// Requirement defines an external binary warscout relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Result {
	results := make([]Result, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		result := Result{Name: req.Name, Optional: req.Optional}
		if cmd == "" {
			result.Detail = "command not configured"
		} else if path, err := exec.LookPath(cmd); err != nil {
			result.Detail = fmt.Sprintf("binary %q not found", cmd)
		} else {
			result.Passed = true
			result.Detail = path
		}
		if !result.Passed && req.Description != "" {
			result.Detail = fmt.Sprintf("%s (%s)", result.Detail, req.Description)
		}
		results = append(results, result)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
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

// CheckRegions reports whether the regions needed for a full read are set.
func CheckRegions(cfg *config.Config) Result {
	const name = "Screen regions"
	var missing []string
	if cfg.Regions.DetailMarker.Empty() {
		missing = append(missing, "detail_marker")
	}
	if cfg.Regions.PlayerName.Empty() {
		missing = append(missing, "player_name")
	}
	slots := cfg.GeneralSlots()
	if len(slots) == 0 {
		missing = append(missing, "generals or generals_row")
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: "missing " + strings.Join(missing, ", ")}
	}
	detail := fmt.Sprintf("%d general slots", len(slots))
	if cfg.Regions.Obstruction.Empty() {
		detail += ", no obstruction region"
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckNtfy verifies that the ntfy server answers. Nothing is published.
func CheckNtfy(ctx context.Context, topic string) Result {
	const name = "ntfy"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, strings.TrimSpace(topic), nil)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("invalid topic url (%v)", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: "reachable"}
}
