package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	md2speech "github.com/alnah/go-md2speech"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	FFmpeg   toolInfo    `json:"ffmpeg"`
	FFplay   toolInfo    `json:"ffplay"`
	Backend  backendInfo `json:"backend"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// toolInfo holds detection results for an external binary.
type toolInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// backendInfo holds TTS backend reachability results.
type backendInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	BackendEnv    string `json:"md2speech_backend_url"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, deps *Dependencies) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(deps.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BackendEnv: os.Getenv("MD2SPEECH_BACKEND_URL"),
		},
	}

	checkTool(result, "ffmpeg", &result.FFmpeg, true)
	checkTool(result, "ffplay", &result.FFplay, false)
	checkBackend(result)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTool detects an external binary on PATH and records its version.
// Required tools missing produce errors; optional ones produce warnings.
func checkTool(result *doctorResult, name string, info *toolInfo, required bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		msg := fmt.Sprintf("%s not found on PATH", name)
		if required {
			result.Errors = append(result.Errors, msg+". Install FFmpeg")
		} else {
			result.Warnings = append(result.Warnings, msg+". Playback will be unavailable")
		}
		return
	}

	info.Found = true
	info.Path = path

	out, err := exec.Command(path, "-version").Output()
	if err == nil {
		// First line only, e.g. "ffmpeg version 6.1.1 ..."
		line, _, _ := strings.Cut(string(out), "\n")
		info.Version = strings.TrimSpace(line)
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v", name, err))
	}
}

// checkBackend probes the TTS backend URL with a short GET.
// Any HTTP response counts as reachable; only connection failures warn.
func checkBackend(result *doctorResult) {
	url := result.Env.BackendEnv
	if url == "" {
		url = md2speech.DefaultBackendURL
	}
	result.Backend.URL = url

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url + "/readyz")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("TTS backend not reachable at %s: %v", url, err))
		return
	}
	_ = resp.Body.Close()
	result.Backend.Reachable = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("MD2SPEECH_CONTAINER") == "1" {
		return true, "MD2SPEECH_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Check temp directory is writable
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "md2speech-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2speech doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "FFmpeg")
	printToolStatus(w, r.FFmpeg, true)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "FFplay")
	printToolStatus(w, r.FFplay, false)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Backend")
	if r.Backend.Reachable {
		fmt.Fprintf(w, "  [OK] Reachable at %s\n", r.Backend.URL)
	} else {
		fmt.Fprintf(w, "  [WARN] Not reachable at %s\n", r.Backend.URL)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to narrate")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printToolStatus prints the status lines for a single tool.
func printToolStatus(w io.Writer, t toolInfo, required bool) {
	if t.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", t.Path)
		if t.Version != "" {
			fmt.Fprintf(w, "  [OK] %s\n", t.Version)
		}
		return
	}
	if required {
		fmt.Fprintln(w, "  [ERROR] Not found")
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
}
