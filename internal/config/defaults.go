package config

const (
	defaultConfigPath           = "~/.config/warscout/config.toml"
	defaultDataDir              = "~/.local/share/warscout"
	defaultGeneralPoolName      = "generals.txt"
	databaseFileName            = "warscout.db"
	lockFileName                = "warscout.lock"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	defaultPollIntervalMS       = 1500
	defaultBlockedPauseMS       = 1200
	defaultNotReadyPauseMS      = 1000
	defaultStatusBufferSize     = 16
	defaultCaptureTimeout       = 5
	defaultRecognitionTimeout   = 20
	defaultUpscale              = 2
	defaultIdentityMinRatio     = 0.75
	defaultIdentityMaxRatio     = 1.0
	defaultGeneralCutoff        = 0.3
	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Capture: Capture{
			TimeoutSeconds: defaultCaptureTimeout,
		},
		Recognition: Recognition{
			Upscale:        defaultUpscale,
			TimeoutSeconds: defaultRecognitionTimeout,
		},
		Monitor: Monitor{
			PollIntervalMS:   defaultPollIntervalMS,
			BlockedPauseMS:   defaultBlockedPauseMS,
			NotReadyPauseMS:  defaultNotReadyPauseMS,
			StatusBufferSize: defaultStatusBufferSize,
		},
		Matching: Matching{
			IdentityMinRatio:  defaultIdentityMinRatio,
			IdentityMaxRatio:  defaultIdentityMaxRatio,
			GeneralCutoff:     defaultGeneralCutoff,
			RememberDecisions: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Recorded:       true,
			Reconcile:      true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
