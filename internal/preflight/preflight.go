package preflight

import (
	"context"

	"warscout/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	results = append(results, CheckBinaries(requirements(cfg))...)
	results = append(results, CheckRegions(cfg))
	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}

func requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "Capture command",
			Command:     firstArg(cfg.Capture.Command),
			Description: "Required to grab screen regions",
		},
		{
			Name:        "Recognition command",
			Command:     firstArg(cfg.Recognition.Command),
			Description: "Required to read text from captures",
		},
	}
	if len(cfg.Recognition.WarmupCommand) > 0 {
		reqs = append(reqs, Requirement{
			Name:        "Recognizer warmup",
			Command:     firstArg(cfg.Recognition.WarmupCommand),
			Description: "Loads the recognition model ahead of the first read",
			Optional:    true,
		})
	}
	return reqs
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
