package telemetry

import "os"

// Env switches. Observation is off unless explicitly enabled; the artifacts
// dir defaults to .stock-agent in the working directory.
const (
	EnvObserveJSON  = "STOCKAGENT_OBSERVE_JSON"
	EnvArtifactsDir = "STOCKAGENT_ARTIFACTS_DIR"
)

func observeEnabled() bool {
	return os.Getenv(EnvObserveJSON) == "1"
}

func artifactsDir() string {
	if dir := os.Getenv(EnvArtifactsDir); dir != "" {
		return dir
	}
	return ".stock-agent"
}
